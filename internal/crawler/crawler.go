package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shopcrawl/shopcrawl/internal/extractor"
	"github.com/shopcrawl/shopcrawl/internal/fetcher"
	"github.com/shopcrawl/shopcrawl/internal/model"
)

// Crawler orchestrates a two-level crawl: listing pages are walked via
// their next-page links, and every new item link found on them is
// fetched and extracted into a record.
//
// Design decision: We keep the Crawler free of HTTP and HTML concerns
// because:
//  1. The fetcher already owns retries, delays, and body handling
//  2. The extractor already owns selectors and link resolution
//  3. The crawl loop stays small enough to reason about ordering
type Crawler struct {
	// fetcher retrieves pages. Its shared rate limiter paces every
	// request the crawler makes, including those of the worker pool.
	fetcher *fetcher.Fetcher

	// extractor pulls item links and records out of fetched HTML.
	extractor extractor.Extractor

	// maxPages limits how many listing pages are fetched.
	// Item pages never count against this budget.
	maxPages int

	// workers is the number of concurrent item page fetches.
	workers int

	// logger is used for crawl progress and failures.
	logger *slog.Logger

	// visited tracks normalized URLs already seen to avoid duplicates.
	visited map[string]bool

	// mutex protects concurrent access to visited.
	mutex sync.Mutex
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithMaxPages sets the maximum number of listing pages to crawl.
func WithMaxPages(n int) Option {
	return func(c *Crawler) {
		c.maxPages = n
	}
}

// WithWorkers sets the number of concurrent item page fetches.
// Default is 1, which crawls items sequentially.
func WithWorkers(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithLogger sets a custom logger for crawl progress.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// New creates a Crawler that fetches pages with f and extracts links
// and records with ex.
func New(f *fetcher.Fetcher, ex extractor.Extractor, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher:   f,
		extractor: ex,
		maxPages:  5,
		workers:   1,
		visited:   make(map[string]bool),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Scrape crawls listing pages starting at startURL and returns the
// scraped records with crawl statistics. The returned result is never
// nil: on error it carries whatever was collected before the failure.
//
// Design decision: We return partial results together with the error
// because:
//  1. An interrupted crawl has already paid for the pages it fetched
//  2. The caller decides whether partial output is worth writing
//  3. Stats stay meaningful for the summary even on failure
func (c *Crawler) Scrape(ctx context.Context, startURL string) (*model.Result, error) {
	result := &model.Result{
		Stats: model.Stats{
			StartURL:  startURL,
			StartedAt: time.Now(),
		},
	}
	defer func() {
		result.Stats.Elapsed = time.Since(result.Stats.StartedAt)
		result.Stats.Attempts = c.fetcher.Attempts()
		result.Stats.Retries = c.fetcher.Retries()
	}()

	pageURL := startURL
	for page := 0; page < c.maxPages && pageURL != ""; page++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		c.logger.Info("fetching listing page", "url", pageURL, "page", page+1)

		content, err := c.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			if page == 0 {
				return result, fmt.Errorf("%w: %v", ErrStartPageUnreachable, err)
			}
			// Later listing failures end pagination with what we have.
			c.logger.Warn("listing page failed, stopping pagination",
				"url", pageURL, "error", err)
			result.Stats.Failures = append(result.Stats.Failures, model.Failure{
				URL:    pageURL,
				Reason: err.Error(),
			})
			break
		}
		c.visit(pageURL)
		result.Stats.ListingPages++

		links, next, err := c.extractor.ExtractLinks(content, pageURL)
		if err != nil {
			if page == 0 {
				return result, fmt.Errorf("%w: %v", ErrStartPageUnreachable, err)
			}
			c.logger.Warn("listing page unparseable, stopping pagination",
				"url", pageURL, "error", err)
			result.Stats.Failures = append(result.Stats.Failures, model.Failure{
				URL:    pageURL,
				Reason: err.Error(),
			})
			break
		}

		// Keep only links not seen before, in discovery order.
		newItems := make([]string, 0, len(links))
		for _, link := range links {
			if !c.visit(link) {
				result.Stats.Duplicates++
				continue
			}
			newItems = append(newItems, link)
		}

		if err := c.scrapeItems(ctx, newItems, result); err != nil {
			return result, err
		}

		if next == "" {
			break
		}
		if c.isVisited(next) {
			c.logger.Debug("next page already visited, stopping pagination", "url", next)
			break
		}
		pageURL = next
	}

	return result, nil
}

// scrapeItems fetches the given item URLs, extracts a record from each,
// and appends the records to the result in the order the URLs were
// discovered. Failed pages are recorded in stats and skipped.
//
// Design decision: We use errgroup.SetLimit rather than a hand-rolled
// worker pool because it's simpler and handles the concurrency limit
// correctly. Records land in a slice indexed by discovery position and
// are stamped after the group finishes, so a concurrent crawl produces
// the same output as a sequential one.
func (c *Crawler) scrapeItems(ctx context.Context, itemURLs []string, result *model.Result) error {
	records := make([]*model.Record, len(itemURLs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	var mu sync.Mutex
	for i, itemURL := range itemURLs {
		g.Go(func() error {
			// Check for cancellation before starting
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			c.logger.Debug("fetching item page", "url", itemURL)

			content, err := c.fetcher.Fetch(gctx, itemURL)
			if err != nil {
				c.logger.Warn("item page failed", "url", itemURL, "error", err)
				mu.Lock()
				result.Stats.Failures = append(result.Stats.Failures, model.Failure{
					URL:    itemURL,
					Reason: err.Error(),
				})
				mu.Unlock()
				return nil
			}

			mu.Lock()
			result.Stats.ItemPages++
			mu.Unlock()

			record, err := c.extractor.ExtractRecord(content, itemURL)
			if err != nil {
				c.logger.Warn("item page unparseable", "url", itemURL, "error", err)
				mu.Lock()
				result.Stats.Failures = append(result.Stats.Failures, model.Failure{
					URL:    itemURL,
					Reason: err.Error(),
				})
				mu.Unlock()
				return nil
			}

			records[i] = record
			return nil
		})
	}

	err := g.Wait()

	// Stamp and append what completed, preserving discovery order.
	for _, record := range records {
		if record == nil {
			continue
		}
		record.Set(model.FieldScrapedAt, time.Now().Format(model.TimestampLayout))
		result.Records = append(result.Records, record)
	}

	return err
}

// visit records a URL as visited. It reports false when the URL was
// already visited. The check and the insert are one atomic step, so
// concurrent discoveries of the same URL fetch it exactly once.
func (c *Crawler) visit(rawURL string) bool {
	key := normalizeURL(rawURL)
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.visited[key] {
		return false
	}
	c.visited[key] = true
	return true
}

// isVisited checks if a URL has been visited.
func (c *Crawler) isVisited(rawURL string) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.visited[normalizeURL(rawURL)]
}

// normalizeURL normalizes a URL for deduplication.
//
// Design decision: We normalize URLs because:
//  1. The same page can have several URL spellings
//  2. Fragments (#anchor) don't change the fetched content
//  3. An empty path and "/" name the same page
func normalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}
