package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoStartURL is returned when no start URL is specified.
	ErrNoStartURL = errors.New("no start URL specified: provide a listing page URL")

	// ErrInvalidStartURL is returned when the start URL is not an absolute
	// http or https URL. Relative item links are resolved against the start
	// URL, so it must be absolute.
	ErrInvalidStartURL = errors.New("invalid start URL: must be an absolute http(s) URL")

	// ErrInvalidMaxPages is returned when the listing page limit is below one.
	// At least the start page itself must be allowed.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be at least 1")

	// ErrInvalidMaxRetries is returned when the attempt limit is below one.
	// MaxRetries counts total attempts, so zero would mean no requests at all.
	ErrInvalidMaxRetries = errors.New("invalid max retries: must be at least 1")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidDelay is returned when the request delay is negative.
	// A negative delay is invalid; use 0 for no delay between requests.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidWorkers is returned when the worker count is below one.
	// At least one worker is needed to fetch item pages.
	ErrInvalidWorkers = errors.New("invalid workers: must be at least 1")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// A negative body size is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
