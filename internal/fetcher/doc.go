// Package fetcher provides polite HTTP fetching with retries for scraping.
//
// The fetcher wraps a standard http.Client with the behaviors a scraper
// needs on every request:
//   - A shared rate limiter that spaces all requests by a fixed delay
//   - Bounded retries for transient failures (timeouts, connection errors,
//     HTTP 5xx and 429)
//   - Immediate failure for permanent errors (4xx and other statuses)
//   - Response body size capping and charset decoding to UTF-8
//   - An optional robots.txt gate
//
// The same limiter gates retries and fresh requests alike, so the interval
// between any two attempts on the wire is never shorter than the configured
// delay, regardless of how many goroutines share the fetcher.
package fetcher
