// Package repository is the filter-query layer over the fantasy database.
package repository

import (
	"context"

	"github.com/okian/swc/internal/domain/filter"
	"github.com/okian/swc/internal/domain/model"
)

// Store provides read access to the four entity collections.
//
// List methods apply filters first, then order by primary key ascending,
// then skip/limit. Get methods report a miss with found=false, never an
// error. Count methods ignore every filter.
type Store interface {
	ListPlayers(ctx context.Context, f filter.Players) ([]model.Player, error)
	GetPlayer(ctx context.Context, playerID int) (model.Player, bool, error)
	CountPlayers(ctx context.Context) (int64, error)

	ListPerformances(ctx context.Context, f filter.Performances) ([]model.Performance, error)
	CountPerformances(ctx context.Context) (int64, error)

	ListLeagues(ctx context.Context, f filter.Leagues) ([]model.League, error)
	GetLeague(ctx context.Context, leagueID int) (model.League, bool, error)
	CountLeagues(ctx context.Context) (int64, error)

	ListTeams(ctx context.Context, f filter.Teams) ([]model.Team, error)
	GetTeam(ctx context.Context, teamID int) (model.Team, bool, error)
	CountTeams(ctx context.Context) (int64, error)

	// ListTeamPlayers pages through the roster association table.
	ListTeamPlayers(ctx context.Context, p filter.Page) ([]model.TeamPlayer, error)
}
