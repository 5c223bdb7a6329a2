// Package extractor turns fetched HTML into item links and records.
//
// The Extractor interface splits scraping into its two page shapes:
// listing pages yield item links plus an optional pagination link, and
// item pages yield one record. The selector-based implementation is
// driven entirely by a config.SiteProfile, so adapting to a new catalog
// layout is a profile change, not a code change.
//
// Extractors are pure: they read nothing but their inputs, never touch
// the network or the clock, and are safe for concurrent use. Timestamps
// are the crawler's job.
package extractor
