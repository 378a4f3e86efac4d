package smoke

import "errors"

// Sentinel kinds for smoke failures.
var (
	ErrUnhealthy     = errors.New("service unhealthy")
	ErrDuplicateID   = errors.New("duplicate id across pages")
	ErrCountMismatch = errors.New("walked rows do not match count")
	ErrInvalidConfig = errors.New("invalid smoke config")
)
