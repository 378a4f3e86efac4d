// Package smoke checks a running API end to end through the client SDK.
package smoke

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/swc/pkg/logger"
	"github.com/okian/swc/pkg/schemas"
	"github.com/okian/swc/pkg/swcclient"
	"golang.org/x/sync/errgroup"
)

// Default settings for the smoke tool.
const (
	DefaultPageSize = 50
	DefaultTimeout  = 10 * time.Second
)

// Run executes the smoke check: health, counts, then a paged walk of
// players, leagues and teams. Each walk must see every id exactly once and
// as many rows as the counts endpoint reports.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("%w: page size must be positive", ErrInvalidConfig)
	}
	stats := &Stats{StartTime: time.Now()}
	log := logger.Named("smoke")

	log.Info(ctx, "starting smoke check",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("pageSize", cfg.PageSize),
		logger.Duration("timeout", cfg.Timeout),
		logger.Bool("backoff", cfg.Backoff))

	client, err := newClient(cfg, log)
	if err != nil {
		return nil, err
	}

	// Step 1: health
	h, err := client.HealthCheck(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if h.Message != schemas.HealthMessage {
		return nil, fmt.Errorf("%w: unexpected message %q", ErrUnhealthy, h.Message)
	}
	log.Info(ctx, "service is healthy")

	// Step 2: counts
	counts, err := client.GetCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("get counts: %w", err)
	}
	log.Info(ctx, "counts",
		logger.Int64("players", counts.PlayerCount),
		logger.Int64("leagues", counts.LeagueCount),
		logger.Int64("teams", counts.TeamCount))

	// Step 3: walk the collections concurrently
	w := &walker{client: client, pageSize: cfg.PageSize, verbose: cfg.Verbose, log: log}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, pages, err := w.players(gctx)
		stats.PlayersSeen = n
		w.addPages(stats, pages)
		if err != nil {
			return err
		}
		return verifyCount("players", n, counts.PlayerCount)
	})
	g.Go(func() error {
		n, pages, err := w.leagues(gctx)
		stats.LeaguesSeen = n
		w.addPages(stats, pages)
		if err != nil {
			return err
		}
		return verifyCount("leagues", n, counts.LeagueCount)
	})
	g.Go(func() error {
		n, pages, err := w.teams(gctx)
		stats.TeamsSeen = n
		w.addPages(stats, pages)
		if err != nil {
			return err
		}
		return verifyCount("teams", n, counts.TeamCount)
	})
	if err := g.Wait(); err != nil {
		return stats, err
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)
	return stats, nil
}

func newClient(cfg *Config, log logger.Logger) (*swcclient.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ccfg, err := swcclient.NewConfig(
		swcclient.WithBaseURL(cfg.BaseURL),
		swcclient.WithBackoff(cfg.Backoff),
		swcclient.WithHTTPClient(&http.Client{Timeout: timeout}),
		swcclient.WithLogger(log.Named("client")),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return swcclient.New(ccfg)
}

func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	log.Info(ctx, "smoke check passed",
		logger.Int("players", stats.PlayersSeen),
		logger.Int("leagues", stats.LeaguesSeen),
		logger.Int("teams", stats.TeamsSeen),
		logger.Int("pages", stats.Pages),
		logger.Duration("duration", stats.Duration))
}
