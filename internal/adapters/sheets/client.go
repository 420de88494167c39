// Package sheets reads value ranges from the Google Sheets API v4.
package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/sheetcount/internal/config"
	"github.com/okian/sheetcount/internal/domain/rowcount"
	"github.com/okian/sheetcount/pkg/logger"
	"google.golang.org/api/googleapi"
)

// valuesPath is the values.get URL template, relative to the API root.
const valuesPath = "v4/spreadsheets/{spreadsheetId}/values/{range}"

// Rows is what a values.get call yields for row counting.
type Rows struct {
	Count      int
	StatusCode int
}

// Client issues values.get calls authenticated with an API key.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     logger.Logger
}

// New creates a Client. Without options it talks to the public Sheets API
// using http.DefaultClient.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    config.DefaultUpstreamBaseURL,
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if !strings.HasSuffix(c.baseURL, "/") {
		c.baseURL += "/"
	}
	return c
}

// FetchRows reads the configured range and counts its top-level rows.
//
// Errors:
//   - rowcount.ErrUpstreamUnreachable when the call does not complete
//   - *rowcount.UpstreamStatusError when the API answers outside 2xx
//   - rowcount.ErrInvalidPayload when the body is not JSON
//
// A JSON body without an array-valued "values" field counts as zero rows.
func (c *Client) FetchRows(ctx context.Context, sheet config.Sheet) (Rows, error) {
	req, err := c.newValuesRequest(ctx, sheet)
	if err != nil {
		return Rows{}, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug(ctx, "sheets request failed",
			logger.String("sheet_id", sheet.SheetID),
			logger.Duration("elapsed", time.Since(start)),
			logger.Error(err))
		return Rows{}, fmt.Errorf("%w: %w", rowcount.ErrUpstreamUnreachable, err)
	}
	defer googleapi.CloseBody(resp)

	c.logger.Debug(ctx, "sheets response",
		logger.String("sheet_id", sheet.SheetID),
		logger.String("range", sheet.Range),
		logger.Int("status", resp.StatusCode),
		logger.Duration("elapsed", time.Since(start)))

	if err := googleapi.CheckResponse(resp); err != nil {
		code := resp.StatusCode
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code != 0 {
			code = apiErr.Code
		}
		return Rows{StatusCode: code}, &rowcount.UpstreamStatusError{Code: code}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Rows{StatusCode: resp.StatusCode}, fmt.Errorf("%w: reading body: %w", rowcount.ErrUpstreamUnreachable, err)
	}

	n, err := countRows(body)
	if err != nil {
		return Rows{StatusCode: resp.StatusCode}, err
	}
	return Rows{Count: n, StatusCode: resp.StatusCode}, nil
}

// newValuesRequest builds GET {base}/v4/spreadsheets/{id}/values/{range}?key=...
// with each path segment escaped on its own, the way the generated client does.
func (c *Client) newValuesRequest(ctx context.Context, sheet config.Sheet) (*http.Request, error) {
	if _, err := url.Parse(c.baseURL); err != nil {
		return nil, fmt.Errorf("sheets: invalid base url %q: %w", c.baseURL, err)
	}
	urls := googleapi.ResolveRelative(c.baseURL, valuesPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urls, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("sheets: building request: %w", err)
	}
	googleapi.Expand(req.URL, map[string]string{
		"spreadsheetId": sheet.SheetID,
		"range":         sheet.Range,
	})

	q := req.URL.Query()
	q.Set("key", sheet.APIKey)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// countRows returns the length of the top-level "values" array.
func countRows(body []byte) (int, error) {
	if !json.Valid(body) {
		return 0, rowcount.ErrInvalidPayload
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		// Valid JSON that is not an object carries no values.
		return 0, nil
	}

	raw, ok := payload["values"]
	if !ok {
		return 0, nil
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return 0, nil
	}
	return len(rows), nil
}
