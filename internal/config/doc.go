// Package config provides configuration structures and utilities for shopcrawl.
// It defines the main options for fetching, crawling, and export, plus the
// site profile format that maps CSS selectors to record fields.
package config
