package rowcount

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrConfigurationMissing = errors.New("required sheet configuration missing")
	ErrUpstreamUnreachable  = errors.New("sheets api unreachable")
	ErrInvalidPayload       = errors.New("sheets api payload is not valid json")
)

// UpstreamStatusError reports a completed upstream call with a non-success status.
type UpstreamStatusError struct {
	Code int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("sheets api responded with status %d", e.Code)
}
