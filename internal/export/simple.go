package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopcrawl/shopcrawl/internal/model"
)

// SimpleWriter outputs a human-readable scraping summary.
// This format is designed for terminal display at the end of a run.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because:
//  1. It works in all terminals without compatibility issues
//  2. It's easier to pipe to files or other tools
//  3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose lists every failed URL with its reason instead of just
	// the failure count.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables the per-URL failure listing.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the scraping summary.
func (w *SimpleWriter) Write(result *model.Result) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, result)
	w.writeCounts(&sb, result)
	w.writeMissing(&sb, result)
	w.writeFailures(&sb, result)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the summary banner.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, result *model.Result) {
	sb.WriteString("\n=== Scraping Summary ===\n")
	if result.Stats.StartURL != "" {
		fmt.Fprintf(sb, "Start URL:       %s\n", result.Stats.StartURL)
	}
}

// writeCounts writes the crawl counters.
func (w *SimpleWriter) writeCounts(sb *strings.Builder, result *model.Result) {
	stats := result.Stats
	fmt.Fprintf(sb, "Records:         %d\n", len(result.Records))
	fmt.Fprintf(sb, "Listing pages:   %d\n", stats.ListingPages)
	fmt.Fprintf(sb, "Item pages:      %d\n", stats.ItemPages)
	fmt.Fprintf(sb, "Duplicates:      %d\n", stats.Duplicates)
	fmt.Fprintf(sb, "Attempts:        %d (%d retries)\n", stats.Attempts, stats.Retries)
	fmt.Fprintf(sb, "Failures:        %d\n", len(stats.Failures))
	if stats.Elapsed > 0 {
		fmt.Fprintf(sb, "Elapsed:         %s\n", stats.Elapsed.Round(time.Millisecond))
	}
}

// writeMissing writes the per-field missing value counts.
// The url and scraped_at fields are bookkeeping, not extracted data,
// so they are left out.
func (w *SimpleWriter) writeMissing(sb *strings.Builder, result *model.Result) {
	if len(result.Records) == 0 {
		return
	}

	sb.WriteString("\nMissing values per field:\n")
	for _, name := range columns(result) {
		if name == model.FieldURL || name == model.FieldScrapedAt {
			continue
		}
		fmt.Fprintf(sb, "  %-14s %d\n", name+":", result.MissingCount(name))
	}
}

// writeFailures writes the failed URL listing.
func (w *SimpleWriter) writeFailures(sb *strings.Builder, result *model.Result) {
	failures := result.Stats.Failures
	if len(failures) == 0 || !w.verbose {
		return
	}

	sb.WriteString("\nFailed URLs:\n")
	for _, f := range failures {
		fmt.Fprintf(sb, "  %s: %s\n", f.URL, f.Reason)
	}
}
