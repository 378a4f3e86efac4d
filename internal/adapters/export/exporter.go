// Package export writes the published bulk files from the fantasy database.
//
// Rows are read from the store in primary-key pages, staged into an
// in-memory DuckDB table per file and written with COPY ... TO, which
// produces both the csv and the parquet flavour.
package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // registers the duckdb driver
	"github.com/okian/swc/internal/domain/filter"
	"github.com/okian/swc/internal/domain/model"
	"github.com/okian/swc/pkg/logger"
	"github.com/okian/swc/pkg/metrics"
)

// Output formats.
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

const defaultBatchSize = 500

// Source is the read side the exporter needs. Every method pages flat rows
// in primary key order; associations are not loaded.
type Source interface {
	PagePlayers(ctx context.Context, p filter.Page) ([]model.Player, error)
	ListPerformances(ctx context.Context, f filter.Performances) ([]model.Performance, error)
	PageLeagues(ctx context.Context, p filter.Page) ([]model.League, error)
	PageTeams(ctx context.Context, p filter.Page) ([]model.Team, error)
	ListTeamPlayers(ctx context.Context, p filter.Page) ([]model.TeamPlayer, error)
}

// File describes one written bulk file.
type File struct {
	Entity string
	Path   string
	Rows   int
}

// Exporter writes bulk files.
type Exporter struct {
	src    Source
	format string
	batch  int
	logger logger.Logger
}

// New creates an Exporter reading from src.
func New(src Source, opts ...Option) (*Exporter, error) {
	e := &Exporter{
		src:    src,
		format: FormatCSV,
		batch:  defaultBatchSize,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.format = strings.ToLower(strings.TrimSpace(e.format))
	if e.format != FormatCSV && e.format != FormatParquet {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, e.format)
	}
	return e, nil
}

// FileName returns the bulk file name for an entity, e.g. player_data.csv.
func (e *Exporter) FileName(entity string) string {
	return entity + "_data." + e.format
}

// Export writes every bulk file into dir, creating it when missing.
func (e *Exporter) Export(ctx context.Context, dir string) ([]File, error) {
	start := time.Now()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("%w: open: %w", ErrDuckDB, err)
	}
	defer db.Close()
	// One connection keeps every statement on the same in-memory database.
	db.SetMaxOpenConns(1)

	files := make([]File, 0, len(tables))
	for _, t := range tables {
		f, err := e.exportTable(ctx, db, dir, t)
		if err != nil {
			return files, err
		}
		files = append(files, f)
	}

	metrics.RecordExportDuration(e.format, float64(time.Since(start).Milliseconds()))
	e.logger.Info(ctx, "bulk export finished",
		logger.String("dir", dir),
		logger.String("format", e.format),
		logger.Int("files", len(files)),
		logger.Duration("elapsed", time.Since(start)))
	return files, nil
}

func (e *Exporter) exportTable(ctx context.Context, db *sql.DB, dir string, t table) (File, error) {
	if _, err := db.ExecContext(ctx, t.ddl); err != nil {
		return File{}, fmt.Errorf("%w: create %s: %w", ErrDuckDB, t.entity, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return File{}, fmt.Errorf("%w: begin: %w", ErrDuckDB, err)
	}
	stmt, err := tx.PrepareContext(ctx, t.insert())
	if err != nil {
		_ = tx.Rollback()
		return File{}, fmt.Errorf("%w: prepare %s: %w", ErrDuckDB, t.entity, err)
	}

	rows := 0
	insert := func(args ...any) error {
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("%w: insert %s: %w", ErrDuckDB, t.entity, err)
		}
		rows++
		return nil
	}
	for p := (filter.Page{Skip: 0, Limit: e.batch}); ; p.Skip += e.batch {
		n, err := t.load(ctx, e.src, p, insert)
		if err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return File{}, err
		}
		if n < e.batch {
			break
		}
	}
	_ = stmt.Close()
	if err := tx.Commit(); err != nil {
		return File{}, fmt.Errorf("%w: commit %s: %w", ErrDuckDB, t.entity, err)
	}

	path := filepath.Join(dir, e.FileName(t.entity))
	if _, err := db.ExecContext(ctx, e.copyStatement(t), path); err != nil {
		return File{}, fmt.Errorf("%w: copy %s: %w", ErrDuckDB, t.entity, err)
	}

	metrics.RecordExportFile(t.entity, e.format, rows)
	e.logger.Debug(ctx, "bulk file written",
		logger.String("entity", t.entity),
		logger.String("path", path),
		logger.Int("rows", rows))
	return File{Entity: t.entity, Path: path, Rows: rows}, nil
}

func (e *Exporter) copyStatement(t table) string {
	opts := "FORMAT CSV, HEADER true"
	if e.format == FormatParquet {
		opts = "FORMAT PARQUET, COMPRESSION 'ZSTD'"
	}
	return fmt.Sprintf("COPY (SELECT * FROM %s ORDER BY %s) TO ? (%s)", t.entity, t.orderBy, opts)
}
