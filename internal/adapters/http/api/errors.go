package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// Messages returned with 404 responses.
var (
	errPlayerNotFound = errors.New("Player not found") //nolint:staticcheck // returned verbatim to clients
	errLeagueNotFound = errors.New("League not found") //nolint:staticcheck // returned verbatim to clients
)
