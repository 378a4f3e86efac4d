package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/swc/internal/smoke"
	"github.com/okian/swc/pkg/swcclient"
)

// Default configuration constants.
const (
	defaultBaseURL     = "http://localhost:8000"
	defaultSmokeTimeout = 5 * time.Minute
)

func main() {
	base := os.Getenv(swcclient.EnvBaseURL)
	if base == "" {
		base = defaultBaseURL
	}

	var (
		baseURL   = flag.String("url", base, "Base URL of the API")
		pageSize  = flag.Int("page", smoke.DefaultPageSize, "Page size used for the walk")
		timeout   = flag.Duration("timeout", smoke.DefaultTimeout, "Per-request HTTP timeout")
		backoff   = flag.Bool("backoff", true, "Retry transient failures")
		logFormat = flag.String("log-format", "text", "Log format: text or json")
		verbose   = flag.Bool("verbose", false, "Log every page")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoke.ShowHelp()
		return
	}

	if err := smoke.SetupLogging(*logFormat, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultSmokeTimeout)
	defer cancel()

	cfg := &smoke.Config{
		BaseURL:  *baseURL,
		PageSize: *pageSize,
		Timeout:  *timeout,
		Backoff:  *backoff,
		Verbose:  *verbose,
	}
	if _, err := smoke.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Smoke check failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
