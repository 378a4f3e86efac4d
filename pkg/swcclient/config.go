package swcclient

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/okian/swc/pkg/logger"
)

// Bulk file formats.
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

// Defaults applied by NewConfig.
const (
	DefaultBackoffMaxTime  = 30 * time.Second
	DefaultBulkFileFormat  = FormatCSV
	DefaultBulkFileBaseURL = "https://raw.githubusercontent.com/zheng-andrew/portfolio-project/main/bulk/"
	DefaultRequestTimeout  = 30 * time.Second
)

// Environment variables read by NewConfig.
const (
	envPrefix          = "SWC_"
	EnvBaseURL         = "SWC_API_BASE_URL"
	EnvBackoff         = "SWC_BACKOFF"
	EnvBackoffMaxTime  = "SWC_BACKOFF_MAX_TIME"
	EnvBulkFileFormat  = "SWC_BULK_FILE_FORMAT"
	EnvBulkFileBaseURL = "SWC_BULK_FILE_BASE_URL"
	EnvBulkFileRetry   = "SWC_BULK_FILE_RETRY"
)

var envKeys = map[string]string{
	EnvBaseURL:         "base_url",
	EnvBackoff:         "backoff",
	EnvBackoffMaxTime:  "backoff_max_time",
	EnvBulkFileFormat:  "bulk_file_format",
	EnvBulkFileBaseURL: "bulk_file_base_url",
	EnvBulkFileRetry:   "bulk_file_retry",
}

// Config holds client settings.
type Config struct {
	// BaseURL of the API, e.g. http://localhost:8000.
	BaseURL string
	// Backoff enables retries on transient failures.
	Backoff bool
	// BackoffMaxTime bounds the total time spent retrying one call.
	BackoffMaxTime time.Duration
	// BulkFileFormat is csv or parquet.
	BulkFileFormat string
	// BulkFileBaseURL is where the bulk files are published.
	BulkFileBaseURL string
	// BulkFileRetry applies the retry policy to bulk downloads too.
	BulkFileRetry bool

	HTTPClient  *http.Client
	Logger      logger.Logger
	RetryPolicy *RetryPolicy
}

// ConfigOption overrides a setting after the environment has been read.
type ConfigOption func(*Config)

// WithBaseURL sets the API base URL.
func WithBaseURL(u string) ConfigOption {
	return func(c *Config) { c.BaseURL = u }
}

// WithBackoff enables or disables retries.
func WithBackoff(enabled bool) ConfigOption {
	return func(c *Config) { c.Backoff = enabled }
}

// WithBackoffMaxTime sets the total retry window.
func WithBackoffMaxTime(d time.Duration) ConfigOption {
	return func(c *Config) { c.BackoffMaxTime = d }
}

// WithBulkFileFormat selects csv or parquet bulk files.
func WithBulkFileFormat(format string) ConfigOption {
	return func(c *Config) { c.BulkFileFormat = format }
}

// WithBulkFileBaseURL overrides where bulk files are fetched from.
func WithBulkFileBaseURL(u string) ConfigOption {
	return func(c *Config) { c.BulkFileBaseURL = u }
}

// WithBulkFileRetry applies the retry policy to bulk downloads.
func WithBulkFileRetry(enabled bool) ConfigOption {
	return func(c *Config) { c.BulkFileRetry = enabled }
}

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(hc *http.Client) ConfigOption {
	return func(c *Config) {
		if hc != nil {
			c.HTTPClient = hc
		}
	}
}

// WithLogger sets the client logger. The default discards output.
func WithLogger(l logger.Logger) ConfigOption {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithRetryPolicy replaces the default exponential policy.
func WithRetryPolicy(p RetryPolicy) ConfigOption {
	return func(c *Config) { c.RetryPolicy = &p }
}

// NewConfig builds a Config from defaults, SWC_ environment variables and
// opts, in that order of precedence (lowest first).
func NewConfig(opts ...ConfigOption) (Config, error) {
	cfg := Config{
		Backoff:         true,
		BackoffMaxTime:  DefaultBackoffMaxTime,
		BulkFileFormat:  DefaultBulkFileFormat,
		BulkFileBaseURL: DefaultBulkFileBaseURL,
	}
	if err := cfg.loadEnv(); err != nil {
		return Config{}, err
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadEnv() error {
	k := koanf.New(".")
	provider := env.Provider(envPrefix, ".", func(s string) string {
		return envKeys[s]
	})
	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("%w: env: %w", ErrInvalidConfig, err)
	}

	if v := k.String("base_url"); v != "" {
		c.BaseURL = v
	}
	if v := k.String("backoff"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidConfig, EnvBackoff, v)
		}
		c.Backoff = b
	}
	if v := k.String("backoff_max_time"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, EnvBackoffMaxTime, v, err)
		}
		c.BackoffMaxTime = d
	}
	if v := k.String("bulk_file_format"); v != "" {
		c.BulkFileFormat = v
	}
	if v := k.String("bulk_file_base_url"); v != "" {
		c.BulkFileBaseURL = v
	}
	if v := k.String("bulk_file_retry"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidConfig, EnvBulkFileRetry, v)
		}
		c.BulkFileRetry = b
	}
	return nil
}

// parseSeconds accepts a bare number of seconds or a Go duration string.
func parseSeconds(v string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(v)
}

func (c *Config) normalize() error {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		return ErrMissingBaseURL
	}
	c.BulkFileFormat = strings.ToLower(strings.TrimSpace(c.BulkFileFormat))
	switch c.BulkFileFormat {
	case FormatCSV, FormatParquet:
	default:
		return fmt.Errorf("%w: bulk file format %q, want csv or parquet", ErrInvalidConfig, c.BulkFileFormat)
	}
	if c.Backoff && c.BackoffMaxTime <= 0 {
		return fmt.Errorf("%w: backoff max time must be positive", ErrInvalidConfig)
	}
	if c.BulkFileBaseURL == "" {
		c.BulkFileBaseURL = DefaultBulkFileBaseURL
	}
	if !strings.HasSuffix(c.BulkFileBaseURL, "/") {
		c.BulkFileBaseURL += "/"
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: DefaultRequestTimeout}
	}
	if c.Logger == nil {
		c.Logger = logger.Discard()
	}
	if c.RetryPolicy == nil {
		p := DefaultRetryPolicy(c.BackoffMaxTime)
		c.RetryPolicy = &p
	}
	return nil
}
