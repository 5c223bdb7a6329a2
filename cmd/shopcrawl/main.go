// Package main provides the entry point for the shopcrawl CLI.
//
// Shopcrawl is a two-level web scraper for product catalogs. It paginates
// through listing pages, follows every item link, and extracts structured
// records using CSS selector profiles.
//
// Usage:
//
//	shopcrawl scrape <start-url>
//	shopcrawl scrape --csv items.csv <start-url>
//
// See --help for all available options.
package main

// main is the entry point for shopcrawl.
func main() {
	Execute()
}
