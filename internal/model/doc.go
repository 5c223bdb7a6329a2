// Package model defines the core data structures shared across shopcrawl.
//
// This package contains the following main types:
//   - Record: a single scraped item as an ordered list of named fields
//   - Result: the outcome of a crawl, records plus statistics
//   - Stats: counters describing the work a crawl performed
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, extractor, export) need these
// types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON and CSV for export.
package model
