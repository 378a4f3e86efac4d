package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/swc/internal/domain/filter"
)

// Query parameter names.
const (
	paramSkip         = "skip"
	paramLimit        = "limit"
	paramMinChanged   = "minimum_last_changed_date"
	paramFirstName    = "first_name"
	paramLastName     = "last_name"
	paramLeagueName   = "league_name"
	paramTeamName     = "team_name"
	paramLeagueID     = "league_id"
	pathParamPlayerID = "player_id"
	pathParamLeagueID = "league_id"
)

// value returns the raw parameter and whether it was set. An empty or
// blank value counts as unset.
func value(q url.Values, name string) (string, bool) {
	v := q.Get(name)
	return v, strings.TrimSpace(v) != ""
}

func optionalString(q url.Values, name string) *string {
	v, ok := value(q, name)
	if !ok {
		return nil
	}
	return &v
}

func optionalInt(q url.Values, name string) (*int, error) {
	v, ok := value(q, name)
	if !ok {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", ErrBadRequest, name)
	}
	return &n, nil
}

func optionalDate(q url.Values, name string) (*time.Time, error) {
	v, ok := value(q, name)
	if !ok {
		return nil, nil
	}
	d, err := filter.ParseDate(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a date in YYYY-MM-DD format", ErrBadRequest, name)
	}
	return &d, nil
}

func parsePage(q url.Values, defaultLimit int) (filter.Page, error) {
	p := filter.Page{Skip: filter.DefaultSkip, Limit: defaultLimit}
	skip, err := optionalInt(q, paramSkip)
	if err != nil {
		return p, err
	}
	if skip != nil {
		p.Skip = *skip
	}
	limit, err := optionalInt(q, paramLimit)
	if err != nil {
		return p, err
	}
	if limit != nil {
		p.Limit = *limit
	}
	return p, nil
}

func parseID(raw, name string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrBadRequest, name)
	}
	return n, nil
}
