// Package model contains the ORM entities stored in the fantasy database.
//
// Table and column names follow the published database: singular table
// names (player, team, ...) and snake_case columns. Every entity carries a
// last_changed_date maintained by the loader that owns the data.
package model

import "time"

// Entity names used for metrics labels, log fields and bulk file names.
const (
	EntityPlayer      = "player"
	EntityPerformance = "performance"
	EntityLeague      = "league"
	EntityTeam        = "team"
	EntityTeamPlayer  = "team_player"
)

// Player is an NFL player.
type Player struct {
	PlayerID        int       `gorm:"primaryKey;autoIncrement:false"`
	GsisID          string    `gorm:"size:32"`
	FirstName       string    `gorm:"size:100;index"`
	LastName        string    `gorm:"size:100;index"`
	Position        string    `gorm:"size:16"`
	LastChangedDate time.Time `gorm:"type:date;index"`

	Performances []Performance `gorm:"foreignKey:PlayerID;references:PlayerID"`
}

// TableName pins the table name.
func (Player) TableName() string { return EntityPlayer }

// Performance is one player's fantasy output for one week.
type Performance struct {
	PerformanceID   int       `gorm:"primaryKey;autoIncrement:false"`
	WeekNumber      string    `gorm:"size:16"`
	FantasyPoints   float64
	PlayerID        int       `gorm:"index"`
	LastChangedDate time.Time `gorm:"type:date;index"`
}

// TableName pins the table name.
func (Performance) TableName() string { return EntityPerformance }

// League is an SWC fantasy league.
type League struct {
	LeagueID        int       `gorm:"primaryKey;autoIncrement:false"`
	LeagueName      string    `gorm:"size:200;index"`
	ScoringType     string    `gorm:"size:32"`
	LastChangedDate time.Time `gorm:"type:date;index"`

	Teams []Team `gorm:"foreignKey:LeagueID;references:LeagueID"`
}

// TableName pins the table name.
func (League) TableName() string { return EntityLeague }

// Team is a fantasy team inside a league.
type Team struct {
	TeamID          int       `gorm:"primaryKey;autoIncrement:false"`
	TeamName        string    `gorm:"size:200;index"`
	LeagueID        int       `gorm:"index"`
	LastChangedDate time.Time `gorm:"type:date;index"`

	Players []Player `gorm:"many2many:team_player;joinForeignKey:TeamID;joinReferences:PlayerID"`
}

// TableName pins the table name.
func (Team) TableName() string { return EntityTeam }

// TeamPlayer is the roster association between teams and players.
type TeamPlayer struct {
	TeamID          int       `gorm:"primaryKey;autoIncrement:false"`
	PlayerID        int       `gorm:"primaryKey;autoIncrement:false"`
	LastChangedDate time.Time `gorm:"type:date"`
}

// TableName pins the table name.
func (TeamPlayer) TableName() string { return EntityTeamPlayer }

// All returns every entity in dependency order, for migrations.
func All() []any {
	return []any{&League{}, &Player{}, &Performance{}, &Team{}, &TeamPlayer{}}
}
