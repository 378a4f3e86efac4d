package swcclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/swc/pkg/swcclient"
	. "github.com/smartystreets/goconvey/convey"
)

const playerJSON = `{"player_id":2009,"gsis_id":"00-0039150","first_name":"Bryce","last_name":"Young","position":"QB","last_changed_date":"2024-04-01","performances":[{"performance_id":9,"week_number":"202301","fantasy_points":12.5,"last_changed_date":"2024-04-01"}]}`

// fastPolicy keeps retry tests quick and nearly deterministic.
func fastPolicy(maxElapsed time.Duration) swcclient.RetryPolicy {
	return swcclient.RetryPolicy{
		InitialInterval:     10 * time.Millisecond,
		Multiplier:          2,
		MaxInterval:         200 * time.Millisecond,
		RandomizationFactor: 0.1,
		MaxElapsedTime:      maxElapsed,
	}
}

func newClient(t *testing.T, baseURL string, opts ...swcclient.ConfigOption) *swcclient.Client {
	t.Helper()
	clearClientEnv(t)
	opts = append([]swcclient.ConfigOption{
		swcclient.WithBaseURL(baseURL),
		swcclient.WithRetryPolicy(fastPolicy(2 * time.Second)),
	}, opts...)
	cfg, err := swcclient.NewConfig(opts...)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	c, err := swcclient.New(cfg)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return c
}

func TestClient_Calls(t *testing.T) {
	Convey("Given an API server", t, func() {
		var (
			mu       sync.Mutex
			lastPath string
			lastRaw  string
		)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			lastPath, lastRaw = r.URL.Path, r.URL.RawQuery
			mu.Unlock()
			w.Header().Set("Content-Type", "application/json")
			switch r.URL.Path {
			case "/":
				_, _ = w.Write([]byte(`{"message":"API health check successful"}`))
			case "/v0/players/":
				_, _ = w.Write([]byte("[" + playerJSON + "]"))
			case "/v0/players/2009":
				_, _ = w.Write([]byte(playerJSON))
			case "/v0/counts/":
				_, _ = w.Write([]byte(`{"league_count":5,"team_count":10,"player_count":20}`))
			case "/v0/leagues/":
				_, _ = w.Write([]byte(`[]`))
			default:
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"code":"not_found","message":"Player not found"}`))
			}
		}))
		defer srv.Close()
		client := newClient(t, srv.URL)
		ctx := context.Background()

		Convey("When checking health", func() {
			h, err := client.HealthCheck(ctx)

			Convey("Then the message is decoded", func() {
				So(err, ShouldBeNil)
				So(h.Message, ShouldEqual, "API health check successful")
			})
		})

		Convey("When listing players with some parameters", func() {
			rows, err := client.ListPlayers(ctx, swcclient.PlayerParams{
				Page:     swcclient.Page{Limit: swcclient.Int(10)},
				LastName: swcclient.String("Young"),
			})

			Convey("Then only the set parameters are sent", func() {
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 1)
				So(rows[0].PlayerID, ShouldEqual, 2009)
				So(rows[0].Performances[0].WeekNumber, ShouldEqual, "202301")
				mu.Lock()
				defer mu.Unlock()
				So(lastPath, ShouldEqual, "/v0/players/")
				So(lastRaw, ShouldEqual, "last_name=Young&limit=10")
			})
		})

		Convey("When listing with a date", func() {
			_, err := client.ListLeagues(ctx, swcclient.LeagueParams{MinimumLastChangedDate: swcclient.Date(2024, time.April, 1)})

			Convey("Then the date is sent as YYYY-MM-DD", func() {
				So(err, ShouldBeNil)
				mu.Lock()
				defer mu.Unlock()
				So(lastRaw, ShouldEqual, "minimum_last_changed_date=2024-04-01")
			})
		})

		Convey("When listing with no parameters", func() {
			rows, err := client.ListLeagues(ctx, swcclient.LeagueParams{})

			Convey("Then no query string is sent and the result is empty, not nil", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldNotBeNil)
				So(rows, ShouldBeEmpty)
				mu.Lock()
				defer mu.Unlock()
				So(lastRaw, ShouldEqual, "")
			})
		})

		Convey("When fetching a known player", func() {
			p, found, err := client.GetPlayer(ctx, 2009)

			Convey("Then it is returned", func() {
				So(err, ShouldBeNil)
				So(found, ShouldBeTrue)
				So(p.FirstName, ShouldEqual, "Bryce")
				So(p.LastChangedDate.String(), ShouldEqual, "2024-04-01")
			})
		})

		Convey("When fetching an unknown player", func() {
			_, found, err := client.GetPlayer(ctx, 1)

			Convey("Then found is false without an error", func() {
				So(err, ShouldBeNil)
				So(found, ShouldBeFalse)
			})
		})

		Convey("When fetching counts", func() {
			c, err := client.GetCounts(ctx)

			Convey("Then all totals are decoded", func() {
				So(err, ShouldBeNil)
				So(c.LeagueCount, ShouldEqual, 5)
				So(c.TeamCount, ShouldEqual, 10)
				So(c.PlayerCount, ShouldEqual, 20)
				mu.Lock()
				defer mu.Unlock()
				So(lastPath, ShouldEqual, swcclient.GetCountsEndpoint)
			})
		})
	})
}

func TestClient_Failures(t *testing.T) {
	Convey("Given a server returning an invalid body", t, func() {
		var attempts atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			attempts.Add(1)
			_, _ = w.Write([]byte(`[{"player_id":0,"first_name":"","last_name":""}]`))
		}))
		defer srv.Close()
		client := newClient(t, srv.URL)

		Convey("When listing players", func() {
			_, err := client.ListPlayers(context.Background(), swcclient.PlayerParams{})

			Convey("Then a DecodeError is returned without retrying", func() {
				var derr *swcclient.DecodeError
				So(errors.As(err, &derr), ShouldBeTrue)
				So(errors.Is(err, swcclient.ErrInvalidResponse), ShouldBeTrue)
				So(attempts.Load(), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a server rejecting the request", t, func() {
		var attempts atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			attempts.Add(1)
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":"bad_request","message":"limit must be >= 1"}`))
		}))
		defer srv.Close()
		params := swcclient.TeamParams{Page: swcclient.Page{Limit: swcclient.Int(0)}}

		Convey("When backoff is disabled", func() {
			client := newClient(t, srv.URL, swcclient.WithBackoff(false))
			_, err := client.ListTeams(context.Background(), params)

			Convey("Then the 400 surfaces after one attempt", func() {
				var serr *swcclient.StatusError
				So(errors.As(err, &serr), ShouldBeTrue)
				So(serr.StatusCode, ShouldEqual, http.StatusBadRequest)
				So(serr.Body, ShouldContainSubstring, "limit must be >= 1")
				So(attempts.Load(), ShouldEqual, 1)
			})
		})

		Convey("When the retry window is short", func() {
			client := newClient(t, srv.URL, swcclient.WithRetryPolicy(fastPolicy(150*time.Millisecond)))
			_, err := client.ListTeams(context.Background(), params)

			Convey("Then the 400 is retried until the window closes", func() {
				var serr *swcclient.StatusError
				So(errors.As(err, &serr), ShouldBeTrue)
				So(serr.StatusCode, ShouldEqual, http.StatusBadRequest)
				So(attempts.Load(), ShouldBeGreaterThan, 1)
			})
		})
	})

	Convey("Given a server without the requested list route", t, func() {
		var attempts atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			attempts.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()
		client := newClient(t, srv.URL, swcclient.WithRetryPolicy(fastPolicy(150*time.Millisecond)))

		Convey("When listing performances", func() {
			_, err := client.ListPerformances(context.Background(), swcclient.PerformanceParams{})

			Convey("Then the 404 is an error, not an absence", func() {
				So(errors.Is(err, swcclient.ErrUnexpectedStatus), ShouldBeTrue)
				So(attempts.Load(), ShouldBeGreaterThan, 1)
			})
		})

		Convey("When fetching a single player", func() {
			_, found, err := client.GetPlayer(context.Background(), 1)

			Convey("Then the 404 means absent and is not retried", func() {
				So(err, ShouldBeNil)
				So(found, ShouldBeFalse)
				So(attempts.Load(), ShouldEqual, 1)
			})
		})
	})
}
