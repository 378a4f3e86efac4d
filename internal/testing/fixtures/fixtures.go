// Package fixtures provides a deterministic fantasy dataset for tests.
//
// The dataset is small but shaped like the published database: 20 players
// with three weekly performances each, 5 leagues of two teams, and two roster
// slots per team. last_changed_date values straddle BoundaryDate so that
// date filters have rows on both sides of it, and one row sits exactly on it.
//
// Usage:
//
//	ds := fixtures.Default()
//	if err := fixtures.Load(ctx, db, ds); err != nil {
//	    t.Fatal(err)
//	}
package fixtures

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/swc/internal/domain/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Reference dates.
var (
	OlderDate     = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	DayBeforeDate = time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	BoundaryDate  = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	NewerDate     = time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
)

// Well-known rows.
const (
	BryceYoungID = 2009
	FirstLeague  = 5001
	FirstTeam    = 3001
	WeeksPerSeed = 3
)

// Dataset holds every seeded row.
type Dataset struct {
	Players      []model.Player
	Performances []model.Performance
	Leagues      []model.League
	Teams        []model.Team
	TeamPlayers  []model.TeamPlayer
}

type seedPlayer struct {
	first, last, pos string
}

var seedPlayers = []seedPlayer{
	{"Josh", "Allen", "QB"},
	{"Patrick", "Mahomes", "QB"},
	{"Christian", "McCaffrey", "RB"},
	{"Tyreek", "Hill", "WR"},
	{"Travis", "Kelce", "TE"},
	{"Justin", "Jefferson", "WR"},
	{"CeeDee", "Lamb", "WR"},
	{"Jalen", "Hurts", "QB"},
	{"Bryce", "Young", "QB"},
	{"Bijan", "Robinson", "RB"},
	{"Keenan", "Allen", "WR"},
	{"Saquon", "Barkley", "RB"},
	{"Derrick", "Henry", "RB"},
	{"Lamar", "Jackson", "QB"},
	{"Puka", "Nacua", "WR"},
	{"Amon-Ra", "St. Brown", "WR"},
	{"Sam", "LaPorta", "TE"},
	{"Breece", "Hall", "RB"},
	{"Garrett", "Wilson", "WR"},
	{"Brock", "Purdy", "QB"},
}

var seedLeagues = []struct {
	name, scoring string
	changed       time.Time
}{
	{"Pigskin Fanatics", "PPR", OlderDate},
	{"Touchdown Titans", "Half-PPR", OlderDate},
	{"Gridiron Gurus", "Standard", DayBeforeDate},
	{"End Zone Elite", "PPR", BoundaryDate},
	{"Fourth and Long", "Standard", NewerDate},
}

var seedTeams = []string{
	"Blitz Brigade", "Hail Mary Heroes",
	"Red Zone Raiders", "Sack Attack",
	"Fumble Force", "Audible Aces",
	"Pick Six Pack", "Two Point Crew",
	"Onside Outlaws", "Goal Line Gang",
}

var playerDates = []time.Time{OlderDate, DayBeforeDate, BoundaryDate, NewerDate}

// Default builds the standard dataset.
func Default() Dataset {
	var ds Dataset

	for i, sp := range seedPlayers {
		ds.Players = append(ds.Players, model.Player{
			PlayerID:        2001 + i,
			GsisID:          fmt.Sprintf("00-00%05d", 38000+i),
			FirstName:       sp.first,
			LastName:        sp.last,
			Position:        sp.pos,
			LastChangedDate: playerDates[i%len(playerDates)],
		})
	}

	for w := 0; w < WeeksPerSeed; w++ {
		for j := range seedPlayers {
			changed := OlderDate
			if w == WeeksPerSeed-1 {
				changed = BoundaryDate
				if j%2 == 1 {
					changed = NewerDate
				}
			}
			ds.Performances = append(ds.Performances, model.Performance{
				PerformanceID:   1 + w*len(seedPlayers) + j,
				WeekNumber:      fmt.Sprintf("20230%d", w+1),
				FantasyPoints:   float64((j*7+w*3)%25) + 0.5*float64(w),
				PlayerID:        2001 + j,
				LastChangedDate: changed,
			})
		}
	}

	for i, sl := range seedLeagues {
		ds.Leagues = append(ds.Leagues, model.League{
			LeagueID:        FirstLeague + i,
			LeagueName:      sl.name,
			ScoringType:     sl.scoring,
			LastChangedDate: sl.changed,
		})
	}

	for k, name := range seedTeams {
		changed := OlderDate
		if k%2 == 1 {
			changed = NewerDate
		}
		ds.Teams = append(ds.Teams, model.Team{
			TeamID:          FirstTeam + k,
			TeamName:        name,
			LeagueID:        FirstLeague + k/2,
			LastChangedDate: changed,
		})
		for slot := 0; slot < 2; slot++ {
			ds.TeamPlayers = append(ds.TeamPlayers, model.TeamPlayer{
				TeamID:          FirstTeam + k,
				PlayerID:        2001 + 2*k + slot,
				LastChangedDate: BoundaryDate,
			})
		}
	}

	return ds
}

// Load inserts the dataset. Tables must already exist.
func Load(ctx context.Context, db *gorm.DB, ds Dataset) error {
	batches := []struct {
		name string
		rows any
		n    int
	}{
		{model.EntityLeague, &ds.Leagues, len(ds.Leagues)},
		{model.EntityPlayer, &ds.Players, len(ds.Players)},
		{model.EntityPerformance, &ds.Performances, len(ds.Performances)},
		{model.EntityTeam, &ds.Teams, len(ds.Teams)},
		{model.EntityTeamPlayer, &ds.TeamPlayers, len(ds.TeamPlayers)},
	}
	for _, b := range batches {
		if b.n == 0 {
			continue
		}
		// Each batch needs its own statement.
		tx := db.WithContext(ctx).Session(&gorm.Session{}).Omit(clause.Associations)
		if err := tx.Create(b.rows).Error; err != nil {
			return fmt.Errorf("seed %s: %w", b.name, err)
		}
	}
	return nil
}

// PlayersChangedSince counts players with last_changed_date on or after d.
func (ds Dataset) PlayersChangedSince(d time.Time) int {
	n := 0
	for _, p := range ds.Players {
		if !p.LastChangedDate.Before(d) {
			n++
		}
	}
	return n
}

// PerformancesChangedBefore counts performances last changed strictly before d.
func (ds Dataset) PerformancesChangedBefore(d time.Time) int {
	n := 0
	for _, p := range ds.Performances {
		if p.LastChangedDate.Before(d) {
			n++
		}
	}
	return n
}

// PlayersByLastName returns the ids of players with exactly this last name.
func (ds Dataset) PlayersByLastName(last string) []int {
	var ids []int
	for _, p := range ds.Players {
		if p.LastName == last {
			ids = append(ids, p.PlayerID)
		}
	}
	return ids
}
