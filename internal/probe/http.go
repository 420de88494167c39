package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const rowCountPath = "/sheets/row-count"

// maxBodyBytes caps how much of a response the probe reads.
const maxBodyBytes = 1 << 20

// httpClient wraps http.Client with timeout.
type httpClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *httpClient {
	return &httpClient{client: &http.Client{Timeout: timeout}}
}

// rowCount performs one GET against the row-count route.
func (c *httpClient) rowCount(ctx context.Context, baseURL string) (Outcome, error) {
	url := strings.TrimRight(baseURL, "/") + rowCountPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: reading body: %w", ErrRequest, err)
	}

	out := Outcome{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, &out); err != nil {
		return Outcome{}, fmt.Errorf("%w: status %d with non-JSON body: %w", ErrRequest, resp.StatusCode, err)
	}
	return out, nil
}
