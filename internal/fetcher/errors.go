package fetcher

import (
	"errors"
	"fmt"
)

// Fetch errors.
//
// Design decision: We use package-level sentinel errors so callers can use
// errors.Is() to tell a skipped URL apart from a failed one. A robots
// disallow is not a failure: the page was never requested.
var (
	// ErrInvalidURL is returned when the URL is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid URL: must be an absolute http(s) URL")

	// ErrRobotsDisallowed is returned when the robots.txt gate is enabled
	// and the target URL is disallowed for the configured user agent.
	// No request is made for the URL itself.
	ErrRobotsDisallowed = errors.New("blocked by robots.txt")
)

// StatusError is returned when the server responds with a non-2xx status.
// Callers can use errors.As to inspect the status code.
type StatusError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// URL is the requested URL.
	URL string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d fetching %s", e.StatusCode, e.URL)
}

// Retryable reports whether the status indicates a transient condition.
// 429 (rate limited) and all 5xx responses are worth retrying; anything
// else non-2xx is treated as permanent.
func (e *StatusError) Retryable() bool {
	if e.StatusCode == 429 {
		return true
	}
	return e.StatusCode >= 500 && e.StatusCode < 600
}
