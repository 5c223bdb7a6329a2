package config

import (
	"net/url"
	"time"
)

// Default configuration values.
// These values are chosen for polite scraping of small product catalogs
// and can all be overridden via CLI flags.
const (
	// DefaultDelay is the pause between HTTP requests. This is a politeness
	// setting: two seconds keeps a two-level crawl well under one request
	// per second even when item pages are small and fast.
	DefaultDelay = 2 * time.Second

	// DefaultTimeout is the per-request timeout. Ten seconds is generous
	// for catalog pages while still failing fast enough that a dead host
	// does not stall the whole crawl.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the total number of attempts per URL, the first
	// try included. Three attempts smooths over transient 5xx responses
	// and connection resets without hammering a struggling server.
	DefaultMaxRetries = 3

	// DefaultMaxPages is the maximum number of listing pages to paginate
	// through. Item pages do not count against this limit.
	DefaultMaxPages = 5

	// DefaultUserAgent identifies shopcrawl in HTTP requests.
	// A descriptive User-Agent lets site operators identify scraper
	// traffic in their logs.
	DefaultUserAgent = "shopcrawl/1.0 (+https://github.com/shopcrawl/shopcrawl)"

	// DefaultMaxBodySize limits the response body size to read.
	// 10MB covers product pages with inlined assets while preventing
	// memory exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultWorkers is the number of concurrent item-page fetches.
	// One worker reproduces a strictly sequential crawl. More workers
	// still share a single rate limiter, so the request rate is bounded
	// either way.
	DefaultWorkers = 1

	// AppName is the application name.
	AppName = "shopcrawl"
)

// Config holds all configuration options for shopcrawl.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., FetchConfig, ExportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// StartURL is the listing page the crawl starts from.
	// Must be an absolute http or https URL.
	StartURL string

	// MaxPages is the maximum number of listing pages to visit.
	// Pagination stops once this many listing pages have been fetched.
	// Item pages are not counted.
	MaxPages int

	// Delay is the pause between HTTP requests. The same fixed delay
	// separates retries of a failed request.
	Delay time.Duration

	// Timeout is the timeout for each HTTP request.
	Timeout time.Duration

	// MaxRetries is the total number of attempts per URL, including
	// the first.
	MaxRetries int

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Larger bodies are truncated.
	MaxBodySize int64

	// Workers is the number of concurrent item-page fetches per listing
	// page. 1 means strictly sequential crawling.
	Workers int

	// RespectRobots enables the robots.txt gate. When true, URLs
	// disallowed for UserAgent are skipped instead of fetched.
	RespectRobots bool

	// ProfilePath is the path to the selector profile file.
	// If empty, the tool searches for .shopcrawl in the current directory
	// and then in the user's home directory, falling back to the built-in
	// product-catalog profile.
	ProfilePath string

	// Profiles holds selector profiles loaded from the profile file.
	// Populated by LoadProfileFile; nil means built-in defaults only.
	Profiles *File

	// CSVFile is the output path for CSV export. Empty disables it.
	CSVFile string

	// JSONFile is the output path for JSON export. Empty disables it.
	JSONFile string

	// ReportFile is the output path for the Markdown summary report.
	// Empty disables it.
	ReportFile string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., delay, timeout).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		MaxPages:    DefaultMaxPages,
		Delay:       DefaultDelay,
		Timeout:     DefaultTimeout,
		MaxRetries:  DefaultMaxRetries,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		Workers:     DefaultWorkers,
	}
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any crawling begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.StartURL == "" {
		return ErrNoStartURL
	}

	// The start URL must be absolute http(s) so relative item links
	// can be resolved against it.
	u, err := url.Parse(c.StartURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidStartURL
	}

	// At least one listing page must be allowed
	if c.MaxPages < 1 {
		return ErrInvalidMaxPages
	}

	// At least one attempt must be allowed
	if c.MaxRetries < 1 {
		return ErrInvalidMaxRetries
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// Delay must be non-negative; use 0 for no politeness delay
	if c.Delay < 0 {
		return ErrInvalidDelay
	}

	// At least one worker must fetch item pages
	if c.Workers < 1 {
		return ErrInvalidWorkers
	}

	// MaxBodySize must be non-negative; 0 means the default limit
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
