package smoke

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/swc/pkg/logger"
	"github.com/okian/swc/pkg/schemas"
	"github.com/okian/swc/pkg/swcclient"
)

type walker struct {
	client   *swcclient.Client
	pageSize int
	verbose  bool
	log      logger.Logger

	mu sync.Mutex
}

func (w *walker) addPages(stats *Stats, n int) {
	w.mu.Lock()
	stats.Pages += n
	w.mu.Unlock()
}

// walk pages through a collection until a short page, checking ids for
// duplicates. It returns the rows and pages seen.
func walk[T any](ctx context.Context, w *walker, name string, list func(context.Context, swcclient.Page) ([]T, error), id func(T) int) (int, int, error) {
	seen := make(map[int]struct{})
	pages := 0
	for skip := 0; ; skip += w.pageSize {
		rows, err := list(ctx, swcclient.Page{Skip: swcclient.Int(skip), Limit: swcclient.Int(w.pageSize)})
		if err != nil {
			return len(seen), pages, fmt.Errorf("list %s skip=%d: %w", name, skip, err)
		}
		pages++
		for _, r := range rows {
			k := id(r)
			if _, dup := seen[k]; dup {
				return len(seen), pages, fmt.Errorf("%w: %s %d", ErrDuplicateID, name, k)
			}
			seen[k] = struct{}{}
		}
		if w.verbose {
			w.log.Debug(ctx, "page",
				logger.String("collection", name),
				logger.Int("skip", skip),
				logger.Int("rows", len(rows)))
		}
		if len(rows) < w.pageSize {
			return len(seen), pages, nil
		}
	}
}

func (w *walker) players(ctx context.Context) (int, int, error) {
	return walk(ctx, w, "players", func(ctx context.Context, p swcclient.Page) ([]schemas.Player, error) {
		return w.client.ListPlayers(ctx, swcclient.PlayerParams{Page: p})
	}, func(p schemas.Player) int { return p.PlayerID })
}

func (w *walker) leagues(ctx context.Context) (int, int, error) {
	return walk(ctx, w, "leagues", func(ctx context.Context, p swcclient.Page) ([]schemas.League, error) {
		return w.client.ListLeagues(ctx, swcclient.LeagueParams{Page: p})
	}, func(l schemas.League) int { return l.LeagueID })
}

func (w *walker) teams(ctx context.Context) (int, int, error) {
	return walk(ctx, w, "teams", func(ctx context.Context, p swcclient.Page) ([]schemas.Team, error) {
		return w.client.ListTeams(ctx, swcclient.TeamParams{Page: p})
	}, func(t schemas.Team) int { return t.TeamID })
}

// verifyCount compares a walked total with the counts endpoint.
func verifyCount(name string, walked int, counted int64) error {
	if int64(walked) != counted {
		return fmt.Errorf("%w: %s walked=%d count=%d", ErrCountMismatch, name, walked, counted)
	}
	return nil
}
