package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrUnsupportedDriver = errors.New("unsupported database driver")
	ErrOpen              = errors.New("open database failed")
	ErrQuery             = errors.New("query failed")
)
