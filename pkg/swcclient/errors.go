package swcclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors returned by the client.
var (
	ErrMissingBaseURL   = errors.New("swcclient: base URL is required")
	ErrInvalidConfig    = errors.New("swcclient: invalid config")
	ErrInvalidResponse  = errors.New("swcclient: invalid response")
	ErrUnexpectedStatus = errors.New("swcclient: unexpected status")
)

// StatusError reports a non-success HTTP status.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Unwrap lets callers match ErrUnexpectedStatus.
func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// Transient reports whether the status is worth retrying. Every HTTP error
// status is; a 404 on a single-row route never reaches here because it means
// the row is absent.
func (e *StatusError) Transient() bool {
	return e.StatusCode >= http.StatusBadRequest
}

// DecodeError reports a response body that could not be decoded or failed
// validation.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode %s: %v", ErrInvalidResponse, e.Endpoint, e.Err)
}

// Unwrap returns both the sentinel and the cause.
func (e *DecodeError) Unwrap() []error { return []error{ErrInvalidResponse, e.Err} }
