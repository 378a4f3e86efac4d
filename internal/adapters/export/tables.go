package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/swc/internal/domain/filter"
	"github.com/okian/swc/internal/domain/model"
)

type insertFunc func(args ...any) error

// table is one bulk file: its staging DDL and how to page rows into it.
type table struct {
	entity  string
	columns []string
	orderBy string
	ddl     string
	load    func(ctx context.Context, src Source, p filter.Page, insert insertFunc) (int, error)
}

func (t table) insert() string {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.entity, strings.Join(t.columns, ", "), marks)
}

// tables lists the bulk files in the order they are written.
var tables = []table{
	{
		entity:  model.EntityPlayer,
		columns: []string{"player_id", "gsis_id", "first_name", "last_name", "position", "last_changed_date"},
		orderBy: "player_id",
		ddl: `CREATE TABLE player (
			player_id INTEGER PRIMARY KEY,
			gsis_id VARCHAR,
			first_name VARCHAR,
			last_name VARCHAR,
			position VARCHAR,
			last_changed_date DATE)`,
		load: func(ctx context.Context, src Source, p filter.Page, insert insertFunc) (int, error) {
			rows, err := src.PagePlayers(ctx, p)
			if err != nil {
				return 0, fmt.Errorf("%w: players: %w", ErrSource, err)
			}
			for _, r := range rows {
				if err := insert(r.PlayerID, r.GsisID, r.FirstName, r.LastName, r.Position, r.LastChangedDate); err != nil {
					return 0, err
				}
			}
			return len(rows), nil
		},
	},
	{
		entity:  model.EntityPerformance,
		columns: []string{"performance_id", "week_number", "fantasy_points", "player_id", "last_changed_date"},
		orderBy: "performance_id",
		ddl: `CREATE TABLE performance (
			performance_id INTEGER PRIMARY KEY,
			week_number VARCHAR,
			fantasy_points DOUBLE,
			player_id INTEGER,
			last_changed_date DATE)`,
		load: func(ctx context.Context, src Source, p filter.Page, insert insertFunc) (int, error) {
			rows, err := src.ListPerformances(ctx, filter.Performances{Page: p})
			if err != nil {
				return 0, fmt.Errorf("%w: performances: %w", ErrSource, err)
			}
			for _, r := range rows {
				if err := insert(r.PerformanceID, r.WeekNumber, r.FantasyPoints, r.PlayerID, r.LastChangedDate); err != nil {
					return 0, err
				}
			}
			return len(rows), nil
		},
	},
	{
		entity:  model.EntityLeague,
		columns: []string{"league_id", "league_name", "scoring_type", "last_changed_date"},
		orderBy: "league_id",
		ddl: `CREATE TABLE league (
			league_id INTEGER PRIMARY KEY,
			league_name VARCHAR,
			scoring_type VARCHAR,
			last_changed_date DATE)`,
		load: func(ctx context.Context, src Source, p filter.Page, insert insertFunc) (int, error) {
			rows, err := src.PageLeagues(ctx, p)
			if err != nil {
				return 0, fmt.Errorf("%w: leagues: %w", ErrSource, err)
			}
			for _, r := range rows {
				if err := insert(r.LeagueID, r.LeagueName, r.ScoringType, r.LastChangedDate); err != nil {
					return 0, err
				}
			}
			return len(rows), nil
		},
	},
	{
		entity:  model.EntityTeam,
		columns: []string{"team_id", "team_name", "league_id", "last_changed_date"},
		orderBy: "team_id",
		ddl: `CREATE TABLE team (
			team_id INTEGER PRIMARY KEY,
			team_name VARCHAR,
			league_id INTEGER,
			last_changed_date DATE)`,
		load: func(ctx context.Context, src Source, p filter.Page, insert insertFunc) (int, error) {
			rows, err := src.PageTeams(ctx, p)
			if err != nil {
				return 0, fmt.Errorf("%w: teams: %w", ErrSource, err)
			}
			for _, r := range rows {
				if err := insert(r.TeamID, r.TeamName, r.LeagueID, r.LastChangedDate); err != nil {
					return 0, err
				}
			}
			return len(rows), nil
		},
	},
	{
		entity:  model.EntityTeamPlayer,
		columns: []string{"team_id", "player_id", "last_changed_date"},
		orderBy: "team_id, player_id",
		ddl: `CREATE TABLE team_player (
			team_id INTEGER,
			player_id INTEGER,
			last_changed_date DATE,
			PRIMARY KEY (team_id, player_id))`,
		load: func(ctx context.Context, src Source, p filter.Page, insert insertFunc) (int, error) {
			rows, err := src.ListTeamPlayers(ctx, p)
			if err != nil {
				return 0, fmt.Errorf("%w: team players: %w", ErrSource, err)
			}
			for _, r := range rows {
				if err := insert(r.TeamID, r.PlayerID, r.LastChangedDate); err != nil {
					return 0, err
				}
			}
			return len(rows), nil
		},
	},
}
