// Package crawler walks listing pages and their item pages, turning a
// start URL into a set of scraped records.
//
// The crawler owns crawl policy: the listing page budget, duplicate
// detection, timestamping, and the worker pool for item pages. Fetch
// policy (timeouts, retries, politeness delay) lives in the fetcher,
// and extraction policy (selectors) lives in the extractor.
package crawler
