// Package export writes scrape results in the supported output formats.
//
// This package contains the following writers:
//   - CSVWriter: spreadsheet-friendly rows with a stable column order
//   - JSONWriter: an array of records preserving field order
//   - MarkdownWriter: a shareable summary report
//   - SimpleWriter: the terminal summary printed after every run
//   - MultiWriter: fan-out to several writers at once
//
// All writers take an io.Writer destination; opening and closing files
// is the caller's responsibility.
package export
