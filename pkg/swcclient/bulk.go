package swcclient

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/okian/swc/pkg/logger"
)

// Bulk file base names, without extension.
const (
	BulkPlayers      = "player_data"
	BulkLeagues      = "league_data"
	BulkPerformances = "performance_data"
	BulkTeams        = "team_data"
	BulkTeamPlayers  = "team_player_data"
)

// BulkFileName returns the file name for base in the configured format.
func (c *Client) BulkFileName(base string) string {
	return base + "." + c.cfg.BulkFileFormat
}

// GetBulkPlayerFile downloads the player bulk file.
func (c *Client) GetBulkPlayerFile(ctx context.Context) ([]byte, bool, error) {
	return c.getBulkFile(ctx, BulkPlayers)
}

// GetBulkLeagueFile downloads the league bulk file.
func (c *Client) GetBulkLeagueFile(ctx context.Context) ([]byte, bool, error) {
	return c.getBulkFile(ctx, BulkLeagues)
}

// GetBulkPerformanceFile downloads the performance bulk file.
func (c *Client) GetBulkPerformanceFile(ctx context.Context) ([]byte, bool, error) {
	return c.getBulkFile(ctx, BulkPerformances)
}

// GetBulkTeamFile downloads the team bulk file.
func (c *Client) GetBulkTeamFile(ctx context.Context) ([]byte, bool, error) {
	return c.getBulkFile(ctx, BulkTeams)
}

// GetBulkTeamPlayerFile downloads the team roster bulk file.
func (c *Client) GetBulkTeamPlayerFile(ctx context.Context) ([]byte, bool, error) {
	return c.getBulkFile(ctx, BulkTeamPlayers)
}

// getBulkFile fetches one bulk file. A non-200 response is reported as
// ok=false with a nil error; only transport failures are errors. Retries
// apply only when BulkFileRetry is set.
func (c *Client) getBulkFile(ctx context.Context, base string) ([]byte, bool, error) {
	target := c.cfg.BulkFileBaseURL + c.BulkFileName(base)
	var data []byte

	op := func() error {
		body, status, err := c.get(ctx, target, "")
		if err != nil {
			if ctx.Err() != nil {
				return Permanent(err)
			}
			return err
		}
		if status != http.StatusOK {
			serr := &StatusError{Method: http.MethodGet, URL: target, StatusCode: status, Body: truncate(body)}
			if serr.Transient() {
				return serr
			}
			return Permanent(serr)
		}
		data = body
		return nil
	}

	start := time.Now()
	var err error
	if c.cfg.BulkFileRetry && c.retry != nil {
		err = c.retry.Do(ctx, op)
	} else {
		err = unwrapPermanent(op())
	}

	var serr *StatusError
	switch {
	case errors.As(err, &serr):
		c.log.Warn(ctx, "bulk file unavailable",
			logger.String("url", target),
			logger.Int("status", serr.StatusCode))
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	c.log.Debug(ctx, "bulk file downloaded",
		logger.String("url", target),
		logger.Int("bytes", len(data)),
		logger.Duration("elapsed", time.Since(start)))
	if data == nil {
		data = []byte{}
	}
	return data, true, nil
}
