package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/okian/swc/internal/adapters/http/api"
	"github.com/okian/swc/internal/domain/filter"
	"github.com/okian/swc/pkg/schemas"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDependencies records the filters passed in and returns canned data.
type mockDependencies struct {
	players      []schemas.Player
	leagues      []schemas.League
	err          error
	panicOnTeams bool

	lastPlayers      filter.Players
	lastPerformances filter.Performances
	lastLeagues      filter.Leagues
	lastTeams        filter.Teams
}

func (m *mockDependencies) ListPlayers(_ context.Context, f filter.Players) ([]schemas.Player, error) {
	m.lastPlayers = f
	if m.err != nil {
		return nil, m.err
	}
	if err := filter.Validate(f); err != nil {
		return nil, err
	}
	return m.players, nil
}

func (m *mockDependencies) GetPlayer(_ context.Context, id int) (schemas.Player, bool, error) {
	if m.err != nil {
		return schemas.Player{}, false, m.err
	}
	for _, p := range m.players {
		if p.PlayerID == id {
			return p, true, nil
		}
	}
	return schemas.Player{}, false, nil
}

func (m *mockDependencies) ListPerformances(_ context.Context, f filter.Performances) ([]schemas.Performance, error) {
	m.lastPerformances = f
	return []schemas.Performance{}, m.err
}

func (m *mockDependencies) ListLeagues(_ context.Context, f filter.Leagues) ([]schemas.League, error) {
	m.lastLeagues = f
	return m.leagues, m.err
}

func (m *mockDependencies) GetLeague(_ context.Context, id int) (schemas.League, bool, error) {
	for _, l := range m.leagues {
		if l.LeagueID == id {
			return l, true, nil
		}
	}
	return schemas.League{}, false, m.err
}

func (m *mockDependencies) ListTeams(_ context.Context, f filter.Teams) ([]schemas.Team, error) {
	if m.panicOnTeams {
		panic("boom")
	}
	m.lastTeams = f
	return []schemas.Team{}, m.err
}

func (m *mockDependencies) Counts(context.Context) (schemas.Counts, error) {
	if m.err != nil {
		return schemas.Counts{}, m.err
	}
	return schemas.Counts{LeagueCount: int64(len(m.leagues)), TeamCount: 10, PlayerCount: int64(len(m.players))}, nil
}

func newDeps() *mockDependencies {
	d, _ := schemas.ParseDate("2024-04-01")
	return &mockDependencies{
		players: []schemas.Player{{
			PlayerBase:   schemas.PlayerBase{PlayerID: 2009, FirstName: "Bryce", LastName: "Young", Position: "QB", LastChangedDate: d},
			Performances: []schemas.PerformanceBase{},
		}},
		leagues: []schemas.League{{
			LeagueBase: schemas.LeagueBase{LeagueID: 5001, LeagueName: "Pigskin Fanatics", ScoringType: "PPR", LastChangedDate: d},
			Teams:      []schemas.TeamBase{},
		}},
	}
}

func serve(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body
}

func TestServer_Routes(t *testing.T) {
	Convey("Given an API router", t, func() {
		deps := newDeps()
		router := api.NewServer(deps).Router(context.Background())

		Convey("When calling the health check", func() {
			w := serve(router, "/")

			Convey("Then it reports success", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body schemas.Health
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Message, ShouldEqual, "API health check successful")
			})
		})

		Convey("When listing players with and without a trailing slash", func() {
			a := serve(router, "/v0/players/")
			b := serve(router, "/v0/players")

			Convey("Then both route to the same handler", func() {
				So(a.Code, ShouldEqual, http.StatusOK)
				So(b.Code, ShouldEqual, http.StatusOK)
				So(a.Body.String(), ShouldEqual, b.Body.String())
				So(a.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
			})
		})

		Convey("When no parameters are given", func() {
			serve(router, "/v0/players/")

			Convey("Then defaults are applied and optional filters stay unset", func() {
				So(deps.lastPlayers.Skip, ShouldEqual, 0)
				So(deps.lastPlayers.Limit, ShouldEqual, 100)
				So(deps.lastPlayers.FirstName, ShouldBeNil)
				So(deps.lastPlayers.LastName, ShouldBeNil)
				So(deps.lastPlayers.MinLastChangedDate, ShouldBeNil)
			})
		})

		Convey("When parameters are present but empty", func() {
			w := serve(router, "/v0/players/?first_name=&last_name=&minimum_last_changed_date=&skip=")

			Convey("Then they are treated as unset", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastPlayers.FirstName, ShouldBeNil)
				So(deps.lastPlayers.LastName, ShouldBeNil)
				So(deps.lastPlayers.MinLastChangedDate, ShouldBeNil)
			})
		})

		Convey("When a name carries surrounding spaces", func() {
			w := serve(router, "/v0/players/?first_name=%20Bryce&last_name=%20%20&skip=%205")

			Convey("Then the name reaches the service unchanged", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastPlayers.FirstName, ShouldNotBeNil)
				So(*deps.lastPlayers.FirstName, ShouldEqual, " Bryce")
			})

			Convey("Then a blank name is unset and numbers are still parsed", func() {
				So(deps.lastPlayers.LastName, ShouldBeNil)
				So(deps.lastPlayers.Skip, ShouldEqual, 5)
			})
		})

		Convey("When every player filter is supplied", func() {
			w := serve(router, "/v0/players/?skip=5&limit=10&first_name=Bryce&last_name=Young&minimum_last_changed_date=2024-04-01")

			Convey("Then they reach the service", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastPlayers.Skip, ShouldEqual, 5)
				So(deps.lastPlayers.Limit, ShouldEqual, 10)
				So(*deps.lastPlayers.FirstName, ShouldEqual, "Bryce")
				So(*deps.lastPlayers.LastName, ShouldEqual, "Young")
				So(deps.lastPlayers.MinLastChangedDate.Format("2006-01-02"), ShouldEqual, "2024-04-01")
			})
		})

		Convey("When skip is not an integer", func() {
			w := serve(router, "/v0/players/?skip=abc")

			Convey("Then the response is 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When limit is zero", func() {
			w := serve(router, "/v0/players/?limit=0")

			Convey("Then the filter validation error becomes 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["message"], ShouldContainSubstring, "limit")
			})
		})

		Convey("When the date is malformed", func() {
			w := serve(router, "/v0/performances/?minimum_last_changed_date=04-01-2024")

			Convey("Then the response is 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["message"], ShouldContainSubstring, "minimum_last_changed_date")
			})
		})

		Convey("When fetching a player by id", func() {
			w := serve(router, "/v0/players/2009")

			Convey("Then the player is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var p schemas.Player
				So(json.Unmarshal(w.Body.Bytes(), &p), ShouldBeNil)
				So(p.FirstName, ShouldEqual, "Bryce")
			})
		})

		Convey("When fetching an unknown player", func() {
			w := serve(router, "/v0/players/1")

			Convey("Then the response is 404 with the player message", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(w)["message"], ShouldEqual, "Player not found")
			})
		})

		Convey("When the player id is not numeric", func() {
			w := serve(router, "/v0/players/abc")

			Convey("Then the response is 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When fetching an unknown league", func() {
			w := serve(router, "/v0/leagues/42")

			Convey("Then the response is 404 with the league message", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(w)["message"], ShouldEqual, "League not found")
			})
		})

		Convey("When listing leagues by name", func() {
			w := serve(router, "/v0/leagues/?league_name=Pigskin%20Fanatics")

			Convey("Then the name is passed exactly", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(*deps.lastLeagues.LeagueName, ShouldEqual, "Pigskin Fanatics")
			})
		})

		Convey("When listing teams by league", func() {
			w := serve(router, "/v0/teams/?league_id=5001&team_name=Blitz%20Brigade")

			Convey("Then both filters are passed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(*deps.lastTeams.LeagueID, ShouldEqual, 5001)
				So(*deps.lastTeams.TeamName, ShouldEqual, "Blitz Brigade")
			})
		})

		Convey("When league_id is not an integer", func() {
			w := serve(router, "/v0/teams/?league_id=one")

			Convey("Then the response is 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When requesting counts", func() {
			w := serve(router, "/v0/counts/")

			Convey("Then all three totals are present", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var c schemas.Counts
				So(json.Unmarshal(w.Body.Bytes(), &c), ShouldBeNil)
				So(c.PlayerCount, ShouldEqual, 1)
				So(c.LeagueCount, ShouldEqual, 1)
				So(c.TeamCount, ShouldEqual, 10)
			})
		})

		Convey("When requesting metrics", func() {
			serve(router, "/")
			w := serve(router, "/metrics")

			Convey("Then the Prometheus exposition is served", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "swc_api_http_requests_total")
			})
		})
	})
}

func TestServer_Failures(t *testing.T) {
	Convey("Given a service that fails", t, func() {
		deps := newDeps()
		deps.err = errors.New("database is locked")
		router := api.NewServer(deps).Router(context.Background())

		Convey("When listing players", func() {
			w := serve(router, "/v0/players/")

			Convey("Then the response is 500 without internal detail", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				body := decodeError(w)
				So(body["code"], ShouldEqual, "internal_error")
				So(body["message"], ShouldNotContainSubstring, "locked")
			})
		})

		Convey("When the failure is an invalid filter", func() {
			deps.err = filter.ErrInvalidFilter
			w := serve(router, "/v0/counts/")

			Convey("Then the response is 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})

	Convey("Given a handler that panics", t, func() {
		deps := newDeps()
		deps.panicOnTeams = true
		router := api.NewServer(deps).Router(context.Background())

		Convey("When the route is called", func() {
			w := serve(router, "/v0/teams/")

			Convey("Then the panic is recovered as a 500", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})
	})
}

func TestServer_DefaultLimit(t *testing.T) {
	Convey("Given a server with a custom default limit", t, func() {
		deps := newDeps()
		router := api.NewServer(deps, api.WithDefaultLimit(25)).Router(context.Background())

		Convey("When listing performances without a limit", func() {
			serve(router, "/v0/performances")

			Convey("Then the configured default is used", func() {
				So(deps.lastPerformances.Limit, ShouldEqual, 25)
			})
		})
	})
}
