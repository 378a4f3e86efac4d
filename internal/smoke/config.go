package smoke

import "time"

// Config holds settings for one smoke run.
type Config struct {
	BaseURL  string        // Base URL of the API
	PageSize int           // Page size used when walking collections
	Timeout  time.Duration // Per-request HTTP timeout
	Backoff  bool          // Retry transient failures
	Verbose  bool          // Log every page
}

// Stats holds run statistics.
type Stats struct {
	PlayersSeen int
	LeaguesSeen int
	TeamsSeen   int
	Pages       int
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
}
