// Package service provides the read-only fantasy data service that
// implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/swc/internal/adapters/repository"
	"github.com/okian/swc/internal/domain/filter"
	"github.com/okian/swc/internal/domain/model"
	"github.com/okian/swc/pkg/logger"
	"github.com/okian/swc/pkg/metrics"
	"github.com/okian/swc/pkg/schemas"
)

// Service implements the API dependencies over a repository.Store.
type Service struct {
	mu sync.RWMutex

	store repository.Store
	owned bool

	// Configuration
	driver       string
	dsn          string
	maxOpenConns int
	autoMigrate  bool
	maxPageLimit int

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDatabase selects the driver and DSN opened on Start.
func WithDatabase(driver, dsn string) Option {
	return func(s *Service) {
		if driver != "" {
			s.driver = driver
		}
		if dsn != "" {
			s.dsn = dsn
		}
	}
}

// WithMaxOpenConns bounds the database pool.
func WithMaxOpenConns(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxOpenConns = n
		}
	}
}

// WithAutoMigrate creates missing tables on Start.
func WithAutoMigrate(enabled bool) Option {
	return func(s *Service) {
		s.autoMigrate = enabled
	}
}

// WithMaxPageLimit caps the limit accepted by list operations. Zero disables the cap.
func WithMaxPageLimit(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxPageLimit = n
		}
	}
}

// WithStore uses an already opened store instead of opening one on Start.
// The caller keeps ownership and closes it.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		driver: repository.DriverSQLite,
		dsn:    "fantasy_data.db",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the store when none was injected and optionally migrates it.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting fantasy data service...")

	if s.store == nil {
		store, err := repository.Open(ctx, s.driver, s.dsn,
			repository.WithLogger(s.logger.Named("repository")),
			repository.WithMaxOpenConns(s.maxOpenConns),
		)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		s.store = store
		s.owned = true
	}

	if s.autoMigrate {
		m, ok := s.store.(interface {
			Migrate(context.Context) error
		})
		if !ok {
			return fmt.Errorf("%w: store does not support migrations", ErrMigrate)
		}
		if err := m.Migrate(ctx); err != nil {
			s.closeOwned()
			return fmt.Errorf("%w: %w", ErrMigrate, err)
		}
		s.logger.Info(ctx, "database schema migrated")
	}

	s.started = true
	s.logger.Info(ctx, "fantasy data service started",
		logger.String("driver", s.driver),
		logger.Bool("autoMigrate", s.autoMigrate),
		logger.Int("maxPageLimit", s.maxPageLimit),
	)
	return nil
}

// Stop releases the store if the service opened it.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping fantasy data service...")

	s.closeOwned()
	s.started = false
	s.logger.Info(context.Background(), "fantasy data service stopped")
}

// closeOwned closes a store opened by Start. Callers hold s.mu.
func (s *Service) closeOwned() {
	if !s.owned {
		return
	}
	if closer, ok := s.store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			s.logger.Warn(context.Background(), "close store", logger.Error(err))
		}
	}
	s.store = nil
	s.owned = false
}

// Started reports whether Start has completed.
func (s *Service) Started() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Store returns the underlying store, or nil before Start.
func (s *Service) Store() repository.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

func (s *Service) ready() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

func (s *Service) checkPage(f any, p filter.Page) error {
	if err := filter.Validate(f); err != nil {
		return err
	}
	if s.maxPageLimit > 0 && p.Limit > s.maxPageLimit {
		return fmt.Errorf("%w: limit must be <= %d", filter.ErrInvalidFilter, s.maxPageLimit)
	}
	return nil
}

// ListPlayers returns a page of players with their performances.
func (s *Service) ListPlayers(ctx context.Context, f filter.Players) ([]schemas.Player, error) {
	store, err := s.ready()
	if err != nil {
		return nil, err
	}
	if err := s.checkPage(f, f.Page); err != nil {
		return nil, err
	}
	rows, err := store.ListPlayers(ctx, f)
	if err != nil {
		return nil, err
	}
	return mapSlice(rows, toPlayer), nil
}

// GetPlayer returns one player, or found=false.
func (s *Service) GetPlayer(ctx context.Context, playerID int) (schemas.Player, bool, error) {
	store, err := s.ready()
	if err != nil {
		return schemas.Player{}, false, err
	}
	row, found, err := store.GetPlayer(ctx, playerID)
	if err != nil || !found {
		return schemas.Player{}, false, err
	}
	return toPlayer(row), true, nil
}

// ListPerformances returns a page of weekly performances.
func (s *Service) ListPerformances(ctx context.Context, f filter.Performances) ([]schemas.Performance, error) {
	store, err := s.ready()
	if err != nil {
		return nil, err
	}
	if err := s.checkPage(f, f.Page); err != nil {
		return nil, err
	}
	rows, err := store.ListPerformances(ctx, f)
	if err != nil {
		return nil, err
	}
	return mapSlice(rows, toPerformance), nil
}

// ListLeagues returns a page of leagues with their teams.
func (s *Service) ListLeagues(ctx context.Context, f filter.Leagues) ([]schemas.League, error) {
	store, err := s.ready()
	if err != nil {
		return nil, err
	}
	if err := s.checkPage(f, f.Page); err != nil {
		return nil, err
	}
	rows, err := store.ListLeagues(ctx, f)
	if err != nil {
		return nil, err
	}
	return mapSlice(rows, toLeague), nil
}

// GetLeague returns one league, or found=false.
func (s *Service) GetLeague(ctx context.Context, leagueID int) (schemas.League, bool, error) {
	store, err := s.ready()
	if err != nil {
		return schemas.League{}, false, err
	}
	row, found, err := store.GetLeague(ctx, leagueID)
	if err != nil || !found {
		return schemas.League{}, false, err
	}
	return toLeague(row), true, nil
}

// ListTeams returns a page of teams with their rosters.
func (s *Service) ListTeams(ctx context.Context, f filter.Teams) ([]schemas.Team, error) {
	store, err := s.ready()
	if err != nil {
		return nil, err
	}
	if err := s.checkPage(f, f.Page); err != nil {
		return nil, err
	}
	rows, err := store.ListTeams(ctx, f)
	if err != nil {
		return nil, err
	}
	return mapSlice(rows, toTeam), nil
}

// Counts returns the league, team and player totals.
func (s *Service) Counts(ctx context.Context) (schemas.Counts, error) {
	store, err := s.ready()
	if err != nil {
		return schemas.Counts{}, err
	}
	var c schemas.Counts
	if c.LeagueCount, err = store.CountLeagues(ctx); err != nil {
		return schemas.Counts{}, err
	}
	if c.TeamCount, err = store.CountTeams(ctx); err != nil {
		return schemas.Counts{}, err
	}
	if c.PlayerCount, err = store.CountPlayers(ctx); err != nil {
		return schemas.Counts{}, err
	}
	return c, nil
}

// RefreshTotals updates the entity total gauges, including performances.
func (s *Service) RefreshTotals(ctx context.Context) error {
	store, err := s.ready()
	if err != nil {
		return err
	}
	c, err := s.Counts(ctx)
	if err != nil {
		return err
	}
	perfs, err := store.CountPerformances(ctx)
	if err != nil {
		return err
	}
	metrics.UpdateEntityTotal(model.EntityPerformance, perfs)
	s.logger.Debug(ctx, "entity totals refreshed",
		logger.Int64("players", c.PlayerCount),
		logger.Int64("leagues", c.LeagueCount),
		logger.Int64("teams", c.TeamCount),
		logger.Int64("performances", perfs),
	)
	return nil
}
