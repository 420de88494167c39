package probe

import "errors"

// Sentinel kinds for probe errors.
var (
	ErrInvalidConfig = errors.New("invalid probe config")
	ErrRequest       = errors.New("row count request failed")
	ErrInconsistent  = errors.New("row count responses differ")
)
