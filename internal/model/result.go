package model

import "time"

// Result holds everything a crawl produced: the scraped records in
// discovery order and the statistics gathered along the way.
type Result struct {
	// Records are the scraped items in the order they were discovered.
	Records []*Record `json:"records"`

	// Stats describes the work the crawl performed.
	Stats Stats `json:"stats"`
}

// Stats collects counters describing a crawl.
type Stats struct {
	// StartURL is the listing URL the crawl started from.
	StartURL string `json:"start_url"`

	// ListingPages is the number of listing pages fetched.
	ListingPages int `json:"listing_pages"`

	// ItemPages is the number of item pages fetched.
	ItemPages int `json:"item_pages"`

	// Duplicates is the number of item links skipped because their URL
	// had already been visited.
	Duplicates int `json:"duplicates"`

	// Attempts is the total number of HTTP attempts, retries included.
	Attempts int `json:"attempts"`

	// Retries is the number of attempts beyond the first per URL.
	Retries int `json:"retries"`

	// Failures lists URLs that could not be fetched or parsed after
	// all retries.
	Failures []Failure `json:"failures,omitempty"`

	// StartedAt is when the crawl began.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the total crawl duration.
	Elapsed time.Duration `json:"elapsed"`
}

// Failure records a URL the crawl gave up on and why.
type Failure struct {
	// URL is the page that failed.
	URL string `json:"url"`

	// Reason is the final error message after retries were exhausted.
	Reason string `json:"reason"`
}

// PagesFetched returns the total number of pages fetched.
func (s *Stats) PagesFetched() int {
	return s.ListingPages + s.ItemPages
}

// FieldNames returns the union of field names across all records in
// first-seen order. Canonical fields come first because every record
// starts with them.
func (r *Result) FieldNames() []string {
	var names []string
	seen := make(map[string]bool)
	for _, rec := range r.Records {
		for _, name := range rec.Fields() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// MissingCount returns the number of records whose named field is
// empty or absent.
func (r *Result) MissingCount(name string) int {
	count := 0
	for _, rec := range r.Records {
		if v, ok := rec.Get(name); !ok || v == "" {
			count++
		}
	}
	return count
}
