package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/sheetcount/internal/domain/rowcount"
)

// Messages returned to callers in the "error" field.
const (
	msgConfigurationMissing = "Missing required configuration: SHEETS_API_KEY and SHEET_ID must be set"
	msgUpstreamUnreachable  = "Failed to reach Google Sheets API"
	msgUpstreamStatus       = "Google Sheets API responded with status %d"
	msgInvalidPayload       = "Google Sheets API returned an invalid response"
	msgInternal             = "Internal server error"
)

// errorStatus maps a lookup error to its HTTP status and public message.
func errorStatus(err error) (int, string) {
	var statusErr *rowcount.UpstreamStatusError
	switch {
	case errors.Is(err, rowcount.ErrConfigurationMissing):
		return http.StatusInternalServerError, msgConfigurationMissing
	case errors.As(err, &statusErr):
		return http.StatusBadGateway, fmt.Sprintf(msgUpstreamStatus, statusErr.Code)
	case errors.Is(err, rowcount.ErrInvalidPayload):
		return http.StatusBadGateway, msgInvalidPayload
	case errors.Is(err, rowcount.ErrUpstreamUnreachable):
		return http.StatusBadGateway, msgUpstreamUnreachable
	default:
		return http.StatusInternalServerError, msgInternal
	}
}
