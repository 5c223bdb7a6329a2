package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

// Fetcher performs rate-limited HTTP GET requests with retries.
//
// Design decision: We use a struct with the http.Client rather than
// passing the client on each call because:
//  1. Client configuration (timeout, redirects) should be consistent
//  2. Connection pooling works better with a shared client
//  3. Easier to test with a custom client
type Fetcher struct {
	// client is the HTTP client used for all requests.
	client *http.Client

	// userAgent is the User-Agent header sent with every request.
	userAgent string

	// maxRetries is the total number of attempts per URL, the first
	// try included.
	maxRetries int

	// maxBodySize limits the response body size to prevent memory
	// exhaustion. Larger bodies are truncated.
	maxBodySize int64

	// limiter spaces requests by the politeness delay. It is shared by
	// every goroutine using this fetcher, so the global request rate
	// stays bounded no matter how many workers fetch concurrently.
	limiter *rate.Limiter

	// headers are extra headers from the site profile, sent with every
	// request. They may override the default Accept headers.
	headers map[string]string

	// cookie is the Cookie header value from the site profile.
	cookie string

	// robots is the robots.txt gate, nil unless enabled.
	robots *robotsGate

	// mutex protects the attempt counters.
	mutex sync.Mutex

	// attempts counts HTTP attempts made, retries included.
	attempts int

	// retries counts attempts beyond the first per Fetch call.
	retries int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		f.client.Timeout = timeout
	}
}

// WithDelay sets the politeness delay between requests.
// The same delay separates retries of a failed request. Zero disables
// rate limiting.
func WithDelay(delay time.Duration) Option {
	return func(f *Fetcher) {
		f.limiter = newLimiter(delay)
	}
}

// WithMaxRetries sets the total number of attempts per URL.
// The minimum is 1, a single attempt with no retries.
func WithMaxRetries(n int) Option {
	return func(f *Fetcher) {
		if n < 1 {
			n = 1
		}
		f.maxRetries = n
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size in bytes.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// WithHeaders sets extra headers sent with every request,
// typically from a site profile.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// WithCookie sets the Cookie header sent with every request.
// Format: "name=value" or "name1=value1; name2=value2"
func WithCookie(cookie string) Option {
	return func(f *Fetcher) {
		f.cookie = cookie
	}
}

// WithRobots enables the robots.txt gate. Each host's robots.txt is
// fetched once and cached; URLs disallowed for the fetcher's user agent
// fail with ErrRobotsDisallowed without being requested.
func WithRobots() Option {
	return func(f *Fetcher) {
		f.robots = &robotsGate{fetcher: f}
	}
}

// WithHTTPClient replaces the HTTP client entirely.
// Apply this before WithTimeout when both are used.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// New creates a Fetcher with sensible defaults: 10 second timeout,
// 2 second delay, 3 attempts, 10MB body cap.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      &http.Client{Timeout: 10 * time.Second},
		userAgent:   "shopcrawl/1.0 (+https://github.com/shopcrawl/shopcrawl)",
		maxRetries:  3,
		maxBodySize: 10 * 1024 * 1024, // 10MB
		limiter:     newLimiter(2 * time.Second),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// newLimiter builds a limiter that releases one request per delay.
// The initial token makes the first request immediate.
func newLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// Attempts returns the total number of HTTP attempts made so far.
func (f *Fetcher) Attempts() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.attempts
}

// Retries returns the number of attempts beyond the first per URL.
func (f *Fetcher) Retries() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.retries
}

// noteAttempt records one attempt; n is 1-based within a Fetch call.
func (f *Fetcher) noteAttempt(n int) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.attempts++
	if n > 1 {
		f.retries++
	}
}

// Fetch performs a GET request and returns the response body decoded to
// UTF-8. It waits on the shared rate limiter before every attempt and
// retries transient failures up to the attempt limit.
//
// Timeouts, connection errors, HTTP 5xx and 429 are retried with the
// same fixed delay between attempts. Any other non-2xx status fails
// immediately with a *StatusError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	if f.robots != nil && !f.robots.allowed(ctx, u) {
		return "", fmt.Errorf("%w: %s", ErrRobotsDisallowed, rawURL)
	}

	var lastErr error
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		// The limiter gates the first attempt and retries alike, so
		// retry spacing equals the politeness delay.
		if err := f.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("fetch %s: %w", rawURL, err)
		}

		f.noteAttempt(attempt)

		body, err := f.do(ctx, rawURL)
		if err == nil {
			return body, nil
		}

		// Permanent failures are not worth another attempt
		if statusErr, ok := err.(*StatusError); ok && !statusErr.Retryable() {
			return "", statusErr
		}
		if ctx.Err() != nil {
			return "", fmt.Errorf("fetch %s: %w", rawURL, ctx.Err())
		}

		lastErr = err
	}

	return "", fmt.Errorf("giving up on %s after %d attempts: %w", rawURL, f.maxRetries, lastErr)
}

// do performs a single GET attempt.
func (f *Fetcher) do(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}
	if f.cookie != "" {
		req.Header.Set("Cookie", f.cookie)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", &StatusError{StatusCode: resp.StatusCode, URL: rawURL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}

	return decodeBody(body, resp.Header.Get("Content-Type")), nil
}

// decodeBody converts the response body to UTF-8 using the charset from
// the Content-Type header. Unknown charsets fall back to the raw bytes.
func decodeBody(body []byte, contentType string) string {
	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return string(body)
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}
