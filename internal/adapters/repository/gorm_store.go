package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/okian/swc/internal/domain/filter"
	"github.com/okian/swc/internal/domain/model"
	"github.com/okian/swc/pkg/logger"
	"github.com/okian/swc/pkg/metrics"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const defaultSlowQuery = 200 * time.Millisecond

// GormStore is the GORM-backed Store.
type GormStore struct {
	db           *gorm.DB
	pool         *pgxpool.Pool
	logger       logger.Logger
	maxOpenConns int
	slowQuery    time.Duration
}

var _ Store = (*GormStore)(nil)

func newGormStore(opts ...Option) *GormStore {
	s := &GormStore{
		logger:    logger.Discard(),
		slowQuery: defaultSlowQuery,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open connects to the database identified by driver and dsn.
//
// The sqlite driver accepts a file path or any SQLite URI. The postgres
// driver builds a pgx pool and hands it to GORM through database/sql.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*GormStore, error) {
	s := newGormStore(opts...)
	gcfg := &gorm.Config{Logger: newSQLLogger(s.logger.Named("sql"), s.slowQuery)}

	var (
		db  *gorm.DB
		err error
	)
	switch driver {
	case DriverSQLite:
		db, err = gorm.Open(sqlite.Open(dsn), gcfg)
	case DriverPostgres:
		var pcfg *pgxpool.Config
		pcfg, err = pgxpool.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("%w: parse dsn: %w", ErrOpen, err)
		}
		if s.maxOpenConns > 0 {
			pcfg.MaxConns = int32(s.maxOpenConns) //nolint:gosec // bounded by config validation
		}
		s.pool, err = pgxpool.NewWithConfig(ctx, pcfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrOpen, err)
		}
		db, err = gorm.Open(postgres.New(postgres.Config{Conn: stdlib.OpenDBFromPool(s.pool)}), gcfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	if err != nil {
		if s.pool != nil {
			s.pool.Close()
		}
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	s.db = db

	sqlDB, err := db.DB()
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	if s.maxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(s.maxOpenConns)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%w: ping: %w", ErrOpen, err)
	}

	s.logger.Info(ctx, "database opened",
		logger.String("driver", driver),
		logger.Int("max_open_conns", s.maxOpenConns))
	return s, nil
}

// NewGormStore wraps an already opened GORM handle.
func NewGormStore(db *gorm.DB, opts ...Option) *GormStore {
	s := newGormStore(opts...)
	s.db = db
	return s
}

// DB exposes the underlying handle for migrations and fixtures.
func (s *GormStore) DB() *gorm.DB { return s.db }

// Migrate creates or updates every table.
func (s *GormStore) Migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.SetupJoinTable(&model.Team{}, "Players", &model.TeamPlayer{}); err != nil {
		return fmt.Errorf("%w: setup join table: %w", ErrQuery, err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("%w: migrate: %w", ErrQuery, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *GormStore) Close() error {
	var sqlDB *sql.DB
	if s.db != nil {
		var err error
		if sqlDB, err = s.db.DB(); err != nil {
			return err
		}
	}
	var err error
	if sqlDB != nil {
		err = sqlDB.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}

// ListPlayers returns players with their performances.
func (s *GormStore) ListPlayers(ctx context.Context, f filter.Players) ([]model.Player, error) {
	start := time.Now()
	var rows []model.Player
	q := s.db.WithContext(ctx).
		Scopes(s.changedSince(f.MinLastChangedDate), equals("first_name", f.FirstName), equals("last_name", f.LastName)).
		Preload("Performances", orderBy("performance_id")).
		Order("player_id").
		Scopes(page(f.Page))
	err := q.Find(&rows).Error
	return rows, s.observe(ctx, model.EntityPlayer, "list", start, len(rows), err)
}

// GetPlayer returns one player with performances, or found=false.
func (s *GormStore) GetPlayer(ctx context.Context, playerID int) (model.Player, bool, error) {
	start := time.Now()
	var row model.Player
	err := s.db.WithContext(ctx).
		Preload("Performances", orderBy("performance_id")).
		Where("player_id = ?", playerID).
		Take(&row).Error
	return single(s, ctx, model.EntityPlayer, start, row, err)
}

// CountPlayers counts every player row.
func (s *GormStore) CountPlayers(ctx context.Context) (int64, error) {
	return s.count(ctx, model.EntityPlayer, &model.Player{})
}

// ListPerformances returns weekly performances.
func (s *GormStore) ListPerformances(ctx context.Context, f filter.Performances) ([]model.Performance, error) {
	start := time.Now()
	var rows []model.Performance
	err := s.db.WithContext(ctx).
		Scopes(s.changedSince(f.MinLastChangedDate)).
		Order("performance_id").
		Scopes(page(f.Page)).
		Find(&rows).Error
	return rows, s.observe(ctx, model.EntityPerformance, "list", start, len(rows), err)
}

// CountPerformances counts every performance row.
func (s *GormStore) CountPerformances(ctx context.Context) (int64, error) {
	return s.count(ctx, model.EntityPerformance, &model.Performance{})
}

// ListLeagues returns leagues with their teams.
func (s *GormStore) ListLeagues(ctx context.Context, f filter.Leagues) ([]model.League, error) {
	start := time.Now()
	var rows []model.League
	err := s.db.WithContext(ctx).
		Scopes(s.changedSince(f.MinLastChangedDate), equals("league_name", f.LeagueName)).
		Preload("Teams", orderBy("team_id")).
		Order("league_id").
		Scopes(page(f.Page)).
		Find(&rows).Error
	return rows, s.observe(ctx, model.EntityLeague, "list", start, len(rows), err)
}

// GetLeague returns one league with teams, or found=false.
func (s *GormStore) GetLeague(ctx context.Context, leagueID int) (model.League, bool, error) {
	start := time.Now()
	var row model.League
	err := s.db.WithContext(ctx).
		Preload("Teams", orderBy("team_id")).
		Where("league_id = ?", leagueID).
		Take(&row).Error
	return single(s, ctx, model.EntityLeague, start, row, err)
}

// CountLeagues counts every league row.
func (s *GormStore) CountLeagues(ctx context.Context) (int64, error) {
	return s.count(ctx, model.EntityLeague, &model.League{})
}

// ListTeams returns teams with their rosters.
func (s *GormStore) ListTeams(ctx context.Context, f filter.Teams) ([]model.Team, error) {
	start := time.Now()
	var rows []model.Team
	err := s.db.WithContext(ctx).
		Scopes(s.changedSince(f.MinLastChangedDate), equals("team_name", f.TeamName), equals("league_id", f.LeagueID)).
		Preload("Players", orderBy("player_id")).
		Order("team_id").
		Scopes(page(f.Page)).
		Find(&rows).Error
	return rows, s.observe(ctx, model.EntityTeam, "list", start, len(rows), err)
}

// GetTeam returns one team with its roster, or found=false.
func (s *GormStore) GetTeam(ctx context.Context, teamID int) (model.Team, bool, error) {
	start := time.Now()
	var row model.Team
	err := s.db.WithContext(ctx).
		Preload("Players", orderBy("player_id")).
		Where("team_id = ?", teamID).
		Take(&row).Error
	return single(s, ctx, model.EntityTeam, start, row, err)
}

// CountTeams counts every team row.
func (s *GormStore) CountTeams(ctx context.Context) (int64, error) {
	return s.count(ctx, model.EntityTeam, &model.Team{})
}

// ListTeamPlayers pages through team_player ordered by (team_id, player_id).
func (s *GormStore) ListTeamPlayers(ctx context.Context, p filter.Page) ([]model.TeamPlayer, error) {
	start := time.Now()
	var rows []model.TeamPlayer
	err := s.db.WithContext(ctx).
		Order("team_id").Order("player_id").
		Scopes(page(p)).
		Find(&rows).Error
	return rows, s.observe(ctx, model.EntityTeamPlayer, "list", start, len(rows), err)
}

// PagePlayers pages through player rows by player_id without performances.
func (s *GormStore) PagePlayers(ctx context.Context, p filter.Page) ([]model.Player, error) {
	return pageRows[model.Player](s, ctx, model.EntityPlayer, "player_id", p)
}

// PageLeagues pages through league rows by league_id without teams.
func (s *GormStore) PageLeagues(ctx context.Context, p filter.Page) ([]model.League, error) {
	return pageRows[model.League](s, ctx, model.EntityLeague, "league_id", p)
}

// PageTeams pages through team rows by team_id without rosters.
func (s *GormStore) PageTeams(ctx context.Context, p filter.Page) ([]model.Team, error) {
	return pageRows[model.Team](s, ctx, model.EntityTeam, "team_id", p)
}

func pageRows[T any](s *GormStore, ctx context.Context, entity, key string, p filter.Page) ([]T, error) {
	start := time.Now()
	var rows []T
	err := s.db.WithContext(ctx).
		Order(key).
		Scopes(page(p)).
		Find(&rows).Error
	return rows, s.observe(ctx, entity, "page", start, len(rows), err)
}

// changedSince keeps rows whose last_changed_date is on or after d.
// SQLite stores dates as text with a time suffix, so the column is
// truncated to its date part before comparing.
func (s *GormStore) changedSince(d *time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if d == nil {
			return db
		}
		if db.Dialector.Name() == DriverSQLite {
			return db.Where("date(last_changed_date) >= ?", d.UTC().Format(filter.DateLayout))
		}
		return db.Where("last_changed_date >= ?", d.UTC())
	}
}

func equals[T any](column string, v *T) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if v == nil {
			return db
		}
		return db.Where(column+" = ?", *v)
	}
}

func page(p filter.Page) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Skip).Limit(p.Limit)
	}
}

func orderBy(column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(column)
	}
}

func (s *GormStore) count(ctx context.Context, entity string, m any) (int64, error) {
	start := time.Now()
	var n int64
	err := s.db.WithContext(ctx).Model(m).Count(&n).Error
	if err = s.observe(ctx, entity, "count", start, 1, err); err != nil {
		return 0, err
	}
	metrics.UpdateEntityTotal(entity, n)
	return n, nil
}

func single[T any](s *GormStore, ctx context.Context, entity string, start time.Time, row T, err error) (T, bool, error) {
	var zero T
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.RecordRepositoryQueryLatency(entity, "get", float64(time.Since(start).Milliseconds()))
		metrics.RecordRepositoryNotFound(entity)
		return zero, false, nil
	}
	if err = s.observe(ctx, entity, "get", start, 1, err); err != nil {
		return zero, false, err
	}
	return row, true, nil
}

func (s *GormStore) observe(ctx context.Context, entity, op string, start time.Time, rows int, err error) error {
	metrics.RecordRepositoryQueryLatency(entity, op, float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordRepositoryError(entity, op)
		s.logger.Error(ctx, "query failed",
			logger.String("entity", entity),
			logger.String("operation", op),
			logger.Error(err))
		return fmt.Errorf("%w: %s %s: %w", ErrQuery, op, entity, err)
	}
	metrics.RecordRepositoryRowsReturned(entity, rows)
	return nil
}
