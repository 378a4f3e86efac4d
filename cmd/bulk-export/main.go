package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/swc/internal/adapters/export"
	"github.com/okian/swc/internal/adapters/repository"
	"github.com/okian/swc/internal/config"
	"github.com/okian/swc/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	var (
		dir    = flag.String("dir", cfg.BulkExportDir, "Output directory")
		format = flag.String("format", export.FormatCSV, "Output format: csv or parquet")
		batch  = flag.Int("batch", 500, "Rows read from the database per page")
	)
	flag.Parse()

	if err := logger.InitWithFormat(cfg.LogFormat, os.Stdout); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}
	log := logger.Named("bulk-export")

	if err := run(ctx, cfg, *dir, *format, *batch, log); err != nil {
		log.Error(ctx, "bulk export failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, dir, format string, batch int, log logger.Logger) error {
	store, err := repository.Open(ctx, cfg.DBDriver, cfg.DBDSN,
		repository.WithLogger(log.Named("repository")),
		repository.WithMaxOpenConns(cfg.DBMaxOpenConns))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	exp, err := export.New(store,
		export.WithFormat(format),
		export.WithBatchSize(batch),
		export.WithLogger(log))
	if err != nil {
		return err
	}
	files, err := exp.Export(ctx, dir)
	if err != nil {
		return err
	}
	for _, f := range files {
		log.Info(ctx, "wrote bulk file",
			logger.String("entity", f.Entity),
			logger.String("path", f.Path),
			logger.Int("rows", f.Rows))
	}
	return nil
}
