package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/swc/internal/adapters/repository"
	"github.com/okian/swc/internal/domain/filter"
	"github.com/okian/swc/internal/domain/model"
	"github.com/okian/swc/internal/testing/fixtures"
	"github.com/okian/swc/internal/testing/testdb"
	. "github.com/smartystreets/goconvey/convey"
)

func playerIDs(rows []model.Player) []int {
	ids := make([]int, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.PlayerID)
	}
	return ids
}

func TestOpen(t *testing.T) {
	Convey("Given an unknown driver", t, func() {
		_, err := repository.Open(context.Background(), "oracle", "whatever")

		Convey("Then Open should fail with ErrUnsupportedDriver", func() {
			So(errors.Is(err, repository.ErrUnsupportedDriver), ShouldBeTrue)
		})
	})

	Convey("Given a malformed postgres DSN", t, func() {
		_, err := repository.Open(context.Background(), repository.DriverPostgres, "postgres://%zz")

		Convey("Then Open should fail with ErrOpen", func() {
			So(errors.Is(err, repository.ErrOpen), ShouldBeTrue)
		})
	})
}

func TestListPlayers(t *testing.T) {
	Convey("Given a seeded store", t, func() {
		tdb := testdb.New(t)
		ctx := tdb.Context()
		store := tdb.Store

		Convey("When listing with default pagination", func() {
			rows, err := store.ListPlayers(ctx, filter.Players{Page: filter.DefaultPage()})

			Convey("Then every player is returned in id order with performances", func() {
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, len(tdb.Dataset.Players))
				ids := playerIDs(rows)
				for i := 1; i < len(ids); i++ {
					So(ids[i], ShouldBeGreaterThan, ids[i-1])
				}
				So(len(rows[0].Performances), ShouldEqual, fixtures.WeeksPerSeed)
				perfs := rows[0].Performances
				So(perfs[0].PerformanceID, ShouldBeLessThan, perfs[1].PerformanceID)
			})
		})

		Convey("When paging through with a small limit", func() {
			all, err := store.ListPlayers(ctx, filter.Players{Page: filter.DefaultPage()})
			So(err, ShouldBeNil)

			var paged []int
			for skip := 0; ; skip += 7 {
				rows, err := store.ListPlayers(ctx, filter.Players{Page: filter.Page{Skip: skip, Limit: 7}})
				So(err, ShouldBeNil)
				if len(rows) == 0 {
					break
				}
				So(len(rows), ShouldBeLessThanOrEqualTo, 7)
				paged = append(paged, playerIDs(rows)...)
			}

			Convey("Then the pages partition the full result", func() {
				So(paged, ShouldResemble, playerIDs(all))
			})
		})

		Convey("When skip runs past the end", func() {
			rows, err := store.ListPlayers(ctx, filter.Players{Page: filter.Page{Skip: 1000, Limit: 10}})

			Convey("Then the page is empty, not an error", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldBeEmpty)
			})
		})

		Convey("When filtering by minimum last changed date", func() {
			rows, err := store.ListPlayers(ctx, filter.Players{
				Page:               filter.DefaultPage(),
				MinLastChangedDate: filter.Ptr(fixtures.BoundaryDate),
			})

			Convey("Then rows on the boundary are included and earlier rows excluded", func() {
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, tdb.Dataset.PlayersChangedSince(fixtures.BoundaryDate))
				for _, r := range rows {
					So(r.LastChangedDate.Before(fixtures.BoundaryDate), ShouldBeFalse)
				}
				var onBoundary bool
				for _, r := range rows {
					if r.LastChangedDate.Equal(fixtures.BoundaryDate) {
						onBoundary = true
					}
				}
				So(onBoundary, ShouldBeTrue)
			})
		})

		Convey("When filtering by first and last name", func() {
			f := filter.Players{Page: filter.DefaultPage(), FirstName: filter.Ptr("Bryce"), LastName: filter.Ptr("Young")}
			first, err1 := store.ListPlayers(ctx, f)
			second, err2 := store.ListPlayers(ctx, f)

			Convey("Then exactly one stable row is returned", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(len(first), ShouldEqual, 1)
				So(first[0].PlayerID, ShouldEqual, fixtures.BryceYoungID)
				So(playerIDs(second), ShouldResemble, playerIDs(first))
			})
		})

		Convey("When filtering by a shared last name", func() {
			rows, err := store.ListPlayers(ctx, filter.Players{Page: filter.DefaultPage(), LastName: filter.Ptr("Allen")})

			Convey("Then every exact match is returned", func() {
				So(err, ShouldBeNil)
				So(playerIDs(rows), ShouldResemble, tdb.Dataset.PlayersByLastName("Allen"))
			})
		})

		Convey("When the name differs only by case", func() {
			rows, err := store.ListPlayers(ctx, filter.Players{Page: filter.DefaultPage(), LastName: filter.Ptr("young")})

			Convey("Then nothing matches", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldBeEmpty)
			})
		})
	})
}

func TestGetPlayer(t *testing.T) {
	Convey("Given a seeded store", t, func() {
		tdb := testdb.New(t)
		ctx := tdb.Context()

		Convey("When fetching an existing player twice", func() {
			a, foundA, errA := tdb.Store.GetPlayer(ctx, fixtures.BryceYoungID)
			b, foundB, errB := tdb.Store.GetPlayer(ctx, fixtures.BryceYoungID)

			Convey("Then both calls return the same row", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(foundA, ShouldBeTrue)
				So(foundB, ShouldBeTrue)
				So(a.FirstName, ShouldEqual, "Bryce")
				So(a.LastName, ShouldEqual, "Young")
				So(a.PlayerID, ShouldEqual, b.PlayerID)
				So(len(a.Performances), ShouldEqual, fixtures.WeeksPerSeed)
			})
		})

		Convey("When fetching an unknown player", func() {
			_, found, err := tdb.Store.GetPlayer(ctx, 999999)

			Convey("Then found is false without an error", func() {
				So(err, ShouldBeNil)
				So(found, ShouldBeFalse)
			})
		})
	})
}

func TestListPerformances(t *testing.T) {
	Convey("Given a seeded store", t, func() {
		tdb := testdb.New(t)
		ctx := tdb.Context()
		unbounded := filter.Page{Skip: 0, Limit: 10000}

		Convey("When comparing filtered and unfiltered results", func() {
			all, err := tdb.Store.ListPerformances(ctx, filter.Performances{Page: unbounded})
			So(err, ShouldBeNil)
			recent, err := tdb.Store.ListPerformances(ctx, filter.Performances{
				Page:               unbounded,
				MinLastChangedDate: filter.Ptr(fixtures.BoundaryDate),
			})
			So(err, ShouldBeNil)

			Convey("Then the difference equals rows changed before the date", func() {
				So(len(recent), ShouldBeLessThan, len(all))
				So(len(all)-len(recent), ShouldEqual, tdb.Dataset.PerformancesChangedBefore(fixtures.BoundaryDate))
			})
		})
	})
}

func TestLeaguesAndTeams(t *testing.T) {
	Convey("Given a seeded store", t, func() {
		tdb := testdb.New(t)
		ctx := tdb.Context()

		Convey("When fetching a league by id", func() {
			league, found, err := tdb.Store.GetLeague(ctx, fixtures.FirstLeague)

			Convey("Then it carries its teams in id order", func() {
				So(err, ShouldBeNil)
				So(found, ShouldBeTrue)
				So(len(league.Teams), ShouldEqual, 2)
				So(league.Teams[0].TeamID, ShouldEqual, fixtures.FirstTeam)
				So(league.Teams[1].TeamID, ShouldEqual, fixtures.FirstTeam+1)
			})
		})

		Convey("When fetching an unknown league", func() {
			_, found, err := tdb.Store.GetLeague(ctx, 1)

			Convey("Then found is false", func() {
				So(err, ShouldBeNil)
				So(found, ShouldBeFalse)
			})
		})

		Convey("When filtering leagues by name", func() {
			hit, err := tdb.Store.ListLeagues(ctx, filter.Leagues{Page: filter.DefaultPage(), LeagueName: filter.Ptr("Gridiron Gurus")})
			So(err, ShouldBeNil)
			miss, err := tdb.Store.ListLeagues(ctx, filter.Leagues{Page: filter.DefaultPage(), LeagueName: filter.Ptr("gridiron gurus")})
			So(err, ShouldBeNil)

			Convey("Then only the exact spelling matches", func() {
				So(len(hit), ShouldEqual, 1)
				So(hit[0].LeagueID, ShouldEqual, fixtures.FirstLeague+2)
				So(miss, ShouldBeEmpty)
			})
		})

		Convey("When filtering teams by league id", func() {
			rows, err := tdb.Store.ListTeams(ctx, filter.Teams{Page: filter.DefaultPage(), LeagueID: filter.Ptr(fixtures.FirstLeague + 1)})

			Convey("Then only that league's teams are returned with rosters", func() {
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 2)
				for _, r := range rows {
					So(r.LeagueID, ShouldEqual, fixtures.FirstLeague+1)
					So(len(r.Players), ShouldEqual, 2)
					So(r.Players[0].PlayerID, ShouldBeLessThan, r.Players[1].PlayerID)
				}
			})
		})

		Convey("When combining team name and league id", func() {
			rows, err := tdb.Store.ListTeams(ctx, filter.Teams{
				Page:     filter.DefaultPage(),
				TeamName: filter.Ptr("Blitz Brigade"),
				LeagueID: filter.Ptr(fixtures.FirstLeague + 1),
			})

			Convey("Then the filters are conjunctive", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldBeEmpty)
			})
		})

		Convey("When fetching a team by id", func() {
			team, found, err := tdb.Store.GetTeam(ctx, fixtures.FirstTeam)

			Convey("Then the roster is preloaded", func() {
				So(err, ShouldBeNil)
				So(found, ShouldBeTrue)
				So(team.TeamName, ShouldEqual, "Blitz Brigade")
				So(len(team.Players), ShouldEqual, 2)
			})
		})

		Convey("When paging team players", func() {
			rows, err := tdb.Store.ListTeamPlayers(ctx, filter.Page{Skip: 2, Limit: 3})

			Convey("Then rows come back in (team_id, player_id) order", func() {
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 3)
				So(rows[0].TeamID, ShouldEqual, fixtures.FirstTeam+1)
				So(rows[0].PlayerID, ShouldBeLessThan, rows[1].PlayerID)
			})
		})
	})
}

func TestCounts(t *testing.T) {
	Convey("Given a seeded store", t, func() {
		tdb := testdb.New(t)
		ctx := tdb.Context()
		unbounded := filter.Page{Skip: 0, Limit: 10000}

		Convey("When counting each collection", func() {
			players, err := tdb.Store.CountPlayers(ctx)
			So(err, ShouldBeNil)
			leagues, err := tdb.Store.CountLeagues(ctx)
			So(err, ShouldBeNil)
			teams, err := tdb.Store.CountTeams(ctx)
			So(err, ShouldBeNil)
			perfs, err := tdb.Store.CountPerformances(ctx)
			So(err, ShouldBeNil)

			allPlayers, _ := tdb.Store.ListPlayers(ctx, filter.Players{Page: unbounded})
			allLeagues, _ := tdb.Store.ListLeagues(ctx, filter.Leagues{Page: unbounded})
			allTeams, _ := tdb.Store.ListTeams(ctx, filter.Teams{Page: unbounded})
			allPerfs, _ := tdb.Store.ListPerformances(ctx, filter.Performances{Page: unbounded})

			Convey("Then counts equal the unpaginated list lengths", func() {
				So(players, ShouldEqual, len(allPlayers))
				So(leagues, ShouldEqual, len(allLeagues))
				So(teams, ShouldEqual, len(allTeams))
				So(perfs, ShouldEqual, len(allPerfs))
				So(players, ShouldEqual, len(tdb.Dataset.Players))
			})
		})

		Convey("When the database is empty", func() {
			empty := testdb.NewEmpty(t)
			n, err := empty.Store.CountPlayers(empty.Context())

			Convey("Then counts are zero", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 0)
			})
		})
	})
}

func TestPageRows(t *testing.T) {
	Convey("Given a seeded store", t, func() {
		tdb := testdb.New(t)
		ctx := tdb.Context()
		store := tdb.Store
		all := filter.Page{Skip: 0, Limit: 10000}

		Convey("When paging players", func() {
			rows, err := store.PagePlayers(ctx, all)

			Convey("Then every player is returned in id order without performances", func() {
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, len(tdb.Dataset.Players))
				ids := playerIDs(rows)
				for i := 1; i < len(ids); i++ {
					So(ids[i], ShouldBeGreaterThan, ids[i-1])
				}
				for _, r := range rows {
					So(r.Performances, ShouldBeNil)
				}
			})
		})

		Convey("When paging leagues and teams", func() {
			leagues, err := store.PageLeagues(ctx, all)
			So(err, ShouldBeNil)
			teams, err := store.PageTeams(ctx, all)
			So(err, ShouldBeNil)

			Convey("Then rows come back without their associations", func() {
				So(len(leagues), ShouldEqual, len(tdb.Dataset.Leagues))
				So(len(teams), ShouldEqual, len(tdb.Dataset.Teams))
				for _, l := range leagues {
					So(l.Teams, ShouldBeNil)
				}
				for _, tm := range teams {
					So(tm.Players, ShouldBeNil)
				}
				So(leagues[0].LeagueID, ShouldEqual, fixtures.FirstLeague)
				So(teams[0].TeamID, ShouldEqual, fixtures.FirstTeam)
			})
		})

		Convey("When paging players in small pages", func() {
			var ids []int
			for skip := 0; ; skip += 6 {
				rows, err := store.PagePlayers(ctx, filter.Page{Skip: skip, Limit: 6})
				So(err, ShouldBeNil)
				if len(rows) == 0 {
					break
				}
				ids = append(ids, playerIDs(rows)...)
			}

			Convey("Then the pages cover the same rows as the full list", func() {
				full, err := store.ListPlayers(ctx, filter.Players{Page: all})
				So(err, ShouldBeNil)
				So(ids, ShouldResemble, playerIDs(full))
			})
		})
	})
}

func TestStoreFaults(t *testing.T) {
	Convey("Given a closed store", t, func() {
		tdb := testdb.NewEmpty(t)
		So(tdb.Store.Close(), ShouldBeNil)

		Convey("When listing", func() {
			_, err := tdb.Store.ListPlayers(context.Background(), filter.Players{Page: filter.DefaultPage()})

			Convey("Then the failure is wrapped with ErrQuery", func() {
				So(errors.Is(err, repository.ErrQuery), ShouldBeTrue)
			})
		})
	})
}
