// Package schemas holds the JSON shapes exchanged between the API and its
// clients. Field names and nesting match the published API; the validate
// tags describe what a well-formed response must contain.
package schemas

// HealthMessage is the body returned by the health check.
const HealthMessage = "API health check successful"

// Health is the health check response.
type Health struct {
	Message string `json:"message" validate:"required"`
}

// PerformanceBase is one weekly fantasy result without its owner.
type PerformanceBase struct {
	PerformanceID   int     `json:"performance_id" validate:"gt=0"`
	WeekNumber      string  `json:"week_number" validate:"required"`
	FantasyPoints   float64 `json:"fantasy_points"`
	LastChangedDate Date    `json:"last_changed_date" validate:"required"`
}

// Performance is a weekly result including the player it belongs to.
type Performance struct {
	PerformanceBase
	PlayerID int `json:"player_id" validate:"gt=0"`
}

// PlayerBase is a player without nested performances.
type PlayerBase struct {
	PlayerID        int    `json:"player_id" validate:"gt=0"`
	GsisID          string `json:"gsis_id"`
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Position        string `json:"position"`
	LastChangedDate Date   `json:"last_changed_date" validate:"required"`
}

// Player is a player with every weekly performance.
type Player struct {
	PlayerBase
	Performances []PerformanceBase `json:"performances" validate:"dive"`
}

// TeamBase is a team without its roster.
type TeamBase struct {
	LeagueID        int    `json:"league_id" validate:"gt=0"`
	TeamID          int    `json:"team_id" validate:"gt=0"`
	TeamName        string `json:"team_name" validate:"required"`
	LastChangedDate Date   `json:"last_changed_date" validate:"required"`
}

// Team is a team with its roster.
type Team struct {
	TeamBase
	Players []PlayerBase `json:"players" validate:"dive"`
}

// LeagueBase is a league without its teams.
type LeagueBase struct {
	LeagueID        int    `json:"league_id" validate:"gt=0"`
	LeagueName      string `json:"league_name" validate:"required"`
	ScoringType     string `json:"scoring_type"`
	LastChangedDate Date   `json:"last_changed_date" validate:"required"`
}

// League is a league with its teams.
type League struct {
	LeagueBase
	Teams []TeamBase `json:"teams" validate:"dive"`
}

// Counts reports collection sizes.
type Counts struct {
	LeagueCount int64 `json:"league_count" validate:"gte=0"`
	TeamCount   int64 `json:"team_count" validate:"gte=0"`
	PlayerCount int64 `json:"player_count" validate:"gte=0"`
}
