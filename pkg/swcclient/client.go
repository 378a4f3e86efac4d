// Package swcclient is a Go client for the SWC fantasy football API.
//
// Every API method takes a context, retries transient failures (transport
// errors, 5xx and 429 responses) according to the configured RetryPolicy,
// and returns validated values from pkg/schemas:
//
//	cfg, err := swcclient.NewConfig(swcclient.WithBaseURL("http://localhost:8000"))
//	if err != nil { ... }
//	client, err := swcclient.New(cfg)
//	players, err := client.ListPlayers(ctx, swcclient.PlayerParams{LastName: swcclient.String("Young")})
//
// Bulk file helpers download the published CSV or Parquet exports.
package swcclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/okian/swc/pkg/logger"
	"github.com/okian/swc/pkg/schemas"
)

// API paths.
const (
	HealthCheckEndpoint      = "/"
	ListLeaguesEndpoint      = "/v0/leagues/"
	ListPlayersEndpoint      = "/v0/players/"
	ListPerformancesEndpoint = "/v0/performances/"
	ListTeamsEndpoint        = "/v0/teams/"
	GetCountsEndpoint        = "/v0/counts/"
)

// RequestIDHeader carries one id per logical call, shared by its retries.
const RequestIDHeader = "X-Request-Id"

const maxErrorBody = 512

// Client calls the SWC API.
type Client struct {
	cfg   Config
	http  *http.Client
	log   logger.Logger
	retry *RetryPolicy
}

// New creates a client. cfg is normally built with NewConfig.
func New(cfg Config) (*Client, error) {
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	c := &Client{cfg: cfg, http: cfg.HTTPClient, log: cfg.Logger}
	if cfg.Backoff {
		c.retry = cfg.RetryPolicy
	}
	c.log.Debug(context.Background(), "swc client configured",
		logger.String("base_url", cfg.BaseURL),
		logger.Bool("backoff", cfg.Backoff),
		logger.Duration("backoff_max_time", cfg.BackoffMaxTime),
		logger.String("bulk_file_format", cfg.BulkFileFormat),
		logger.String("bulk_file_base_url", cfg.BulkFileBaseURL),
	)
	return c, nil
}

// Config returns the effective configuration.
func (c *Client) Config() Config { return c.cfg }

// HealthCheck calls the health endpoint.
func (c *Client) HealthCheck(ctx context.Context) (schemas.Health, error) {
	h, _, err := getOne[schemas.Health](ctx, c, HealthCheckEndpoint, nil, false)
	return h, err
}

// ListPlayers returns players matching p.
func (c *Client) ListPlayers(ctx context.Context, p PlayerParams) ([]schemas.Player, error) {
	return getList[schemas.Player](ctx, c, ListPlayersEndpoint, p.values())
}

// GetPlayer returns one player. A 404 yields found=false and no error.
func (c *Client) GetPlayer(ctx context.Context, playerID int) (schemas.Player, bool, error) {
	return getOne[schemas.Player](ctx, c, ListPlayersEndpoint+strconv.Itoa(playerID), nil, true)
}

// ListPerformances returns weekly performances matching p.
func (c *Client) ListPerformances(ctx context.Context, p PerformanceParams) ([]schemas.Performance, error) {
	return getList[schemas.Performance](ctx, c, ListPerformancesEndpoint, p.values())
}

// ListLeagues returns leagues matching p.
func (c *Client) ListLeagues(ctx context.Context, p LeagueParams) ([]schemas.League, error) {
	return getList[schemas.League](ctx, c, ListLeaguesEndpoint, p.values())
}

// GetLeague returns one league. A 404 yields found=false and no error.
func (c *Client) GetLeague(ctx context.Context, leagueID int) (schemas.League, bool, error) {
	return getOne[schemas.League](ctx, c, ListLeaguesEndpoint+strconv.Itoa(leagueID), nil, true)
}

// ListTeams returns teams matching p.
func (c *Client) ListTeams(ctx context.Context, p TeamParams) ([]schemas.Team, error) {
	return getList[schemas.Team](ctx, c, ListTeamsEndpoint, p.values())
}

// GetCounts returns the league, team and player totals.
func (c *Client) GetCounts(ctx context.Context) (schemas.Counts, error) {
	counts, _, err := getOne[schemas.Counts](ctx, c, GetCountsEndpoint, nil, false)
	return counts, err
}

func getOne[T any](ctx context.Context, c *Client, endpoint string, params url.Values, notFoundOK bool) (T, bool, error) {
	var out T
	found, err := c.call(ctx, endpoint, params, notFoundOK, func(body []byte) error {
		var v T
		if err := json.Unmarshal(body, &v); err != nil {
			return &DecodeError{Endpoint: endpoint, Err: err}
		}
		if err := schemas.Validate(&v); err != nil {
			return &DecodeError{Endpoint: endpoint, Err: err}
		}
		out = v
		return nil
	})
	if err != nil || !found {
		var zero T
		return zero, false, err
	}
	return out, true, nil
}

func getList[T any](ctx context.Context, c *Client, endpoint string, params url.Values) ([]T, error) {
	var out []T
	_, err := c.call(ctx, endpoint, params, false, func(body []byte) error {
		var rows []T
		if err := json.Unmarshal(body, &rows); err != nil {
			return &DecodeError{Endpoint: endpoint, Err: err}
		}
		for i := range rows {
			if err := schemas.Validate(&rows[i]); err != nil {
				return &DecodeError{Endpoint: endpoint, Err: fmt.Errorf("item %d: %w", i, err)}
			}
		}
		if rows == nil {
			rows = []T{}
		}
		out = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// call performs GET endpoint with retries and hands a 200 body to decode.
// It reports found=false only for a 404 when notFoundOK is set.
func (c *Client) call(ctx context.Context, endpoint string, params url.Values, notFoundOK bool, decode func([]byte) error) (bool, error) {
	target := c.cfg.BaseURL + endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	reqID := uuid.NewString()
	found := true
	attempt := 0

	op := func() error {
		attempt++
		start := time.Now()
		body, status, err := c.get(ctx, target, reqID)
		if err != nil {
			c.log.Warn(ctx, "request failed",
				logger.String("url", target),
				logger.String("request_id", reqID),
				logger.Int("attempt", attempt),
				logger.Error(err))
			if ctx.Err() != nil {
				return Permanent(err)
			}
			return err
		}
		c.log.Debug(ctx, "response received",
			logger.String("url", target),
			logger.String("request_id", reqID),
			logger.Int("status", status),
			logger.Int("attempt", attempt),
			logger.Duration("elapsed", time.Since(start)))

		switch {
		case status == http.StatusOK:
			if err := decode(body); err != nil {
				return Permanent(err)
			}
			return nil
		case status == http.StatusNotFound && notFoundOK:
			found = false
			return nil
		}
		serr := &StatusError{Method: http.MethodGet, URL: target, StatusCode: status, Body: truncate(body)}
		if serr.Transient() {
			return serr
		}
		return Permanent(serr)
	}

	var err error
	if c.retry != nil {
		err = c.retry.Do(ctx, op)
	} else {
		err = unwrapPermanent(op())
	}
	if err != nil {
		c.log.Error(ctx, "call failed",
			logger.String("url", target),
			logger.String("request_id", reqID),
			logger.Int("attempts", attempt),
			logger.Error(err))
		return false, err
	}
	return found, nil
}

func (c *Client) get(ctx context.Context, target, reqID string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if reqID != "" {
		req.Header.Set(RequestIDHeader, reqID)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("GET %s: %w", target, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, nil
}

func truncate(b []byte) string {
	if len(b) > maxErrorBody {
		return string(b[:maxErrorBody]) + "..."
	}
	return string(b)
}
