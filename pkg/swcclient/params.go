package swcclient

import (
	"net/url"
	"strconv"
	"time"

	"github.com/okian/swc/pkg/schemas"
)

// Page is optional skip/limit pagination. Nil fields use the server defaults.
type Page struct {
	Skip  *int
	Limit *int
}

// PlayerParams filters ListPlayers.
type PlayerParams struct {
	Page
	MinimumLastChangedDate *time.Time
	FirstName              *string
	LastName               *string
}

// PerformanceParams filters ListPerformances.
type PerformanceParams struct {
	Page
	MinimumLastChangedDate *time.Time
}

// LeagueParams filters ListLeagues.
type LeagueParams struct {
	Page
	MinimumLastChangedDate *time.Time
	LeagueName             *string
}

// TeamParams filters ListTeams.
type TeamParams struct {
	Page
	MinimumLastChangedDate *time.Time
	TeamName               *string
	LeagueID               *int
}

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

// Date returns a pointer to midnight UTC on the given day.
func Date(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

type query url.Values

func (q query) setInt(name string, v *int) {
	if v != nil {
		url.Values(q).Set(name, strconv.Itoa(*v))
	}
}

func (q query) setString(name string, v *string) {
	if v != nil {
		url.Values(q).Set(name, *v)
	}
}

func (q query) setDate(name string, v *time.Time) {
	if v != nil {
		url.Values(q).Set(name, v.UTC().Format(schemas.DateLayout))
	}
}

func (p Page) fill(q query) {
	q.setInt("skip", p.Skip)
	q.setInt("limit", p.Limit)
}

func (p PlayerParams) values() url.Values {
	q := query{}
	p.Page.fill(q)
	q.setDate("minimum_last_changed_date", p.MinimumLastChangedDate)
	q.setString("first_name", p.FirstName)
	q.setString("last_name", p.LastName)
	return url.Values(q)
}

func (p PerformanceParams) values() url.Values {
	q := query{}
	p.Page.fill(q)
	q.setDate("minimum_last_changed_date", p.MinimumLastChangedDate)
	return url.Values(q)
}

func (p LeagueParams) values() url.Values {
	q := query{}
	p.Page.fill(q)
	q.setDate("minimum_last_changed_date", p.MinimumLastChangedDate)
	q.setString("league_name", p.LeagueName)
	return url.Values(q)
}

func (p TeamParams) values() url.Values {
	q := query{}
	p.Page.fill(q)
	q.setDate("minimum_last_changed_date", p.MinimumLastChangedDate)
	q.setString("team_name", p.TeamName)
	q.setInt("league_id", p.LeagueID)
	return url.Values(q)
}
