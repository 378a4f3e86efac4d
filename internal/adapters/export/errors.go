package export

import "errors"

// Sentinel kinds for export errors.
var (
	ErrInvalidFormat = errors.New("invalid bulk file format")
	ErrDuckDB        = errors.New("duckdb failed")
	ErrSource        = errors.New("read source failed")
)
