package export

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/shopcrawl/shopcrawl/internal/model"
)

// previewRows is how many records the report preview table shows.
const previewRows = 5

// MarkdownWriter outputs results as a Markdown summary report.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
//  1. Type-safe markdown generation
//  2. Support for tables, lists, and horizontal rules
//  3. Consistent escaping of cell content
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the result as a Markdown report.
func (w *MarkdownWriter) Write(result *model.Result) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writeMissing(md, result)
	w.writePreview(md, result)
	w.writeFailures(md, result)

	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [shopcrawl](https://github.com/shopcrawl/shopcrawl)*")

	return len(md.String()), md.Build()
}

// writeHeader writes the report title and crawl metadata table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.Result) {
	stats := result.Stats

	md.H1("Scrape Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Start URL", "`" + stats.StartURL + "`"},
			{"Started", stats.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", stats.Elapsed.Round(time.Millisecond).String()},
			{"Listing pages", strconv.Itoa(stats.ListingPages)},
			{"Item pages", strconv.Itoa(stats.ItemPages)},
			{"Records", strconv.Itoa(len(result.Records))},
			{"Duplicates skipped", strconv.Itoa(stats.Duplicates)},
			{"Attempts", strconv.Itoa(stats.Attempts) + " (" + strconv.Itoa(stats.Retries) + " retries)"},
		},
	})
	md.PlainText("")
}

// writeMissing writes the per-field missing value table.
func (w *MarkdownWriter) writeMissing(md *markdown.Markdown, result *model.Result) {
	if len(result.Records) == 0 {
		return
	}

	cols := columns(result)
	rows := make([][]string, 0, len(cols))
	for _, name := range cols {
		if name == model.FieldURL || name == model.FieldScrapedAt {
			continue
		}
		rows = append(rows, []string{
			humanizeField(name),
			strconv.Itoa(result.MissingCount(name)),
		})
	}

	md.H2("Missing Values")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Field", "Missing"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePreview writes a table with the first few records.
func (w *MarkdownWriter) writePreview(md *markdown.Markdown, result *model.Result) {
	if len(result.Records) == 0 {
		return
	}

	n := len(result.Records)
	if n > previewRows {
		n = previewRows
	}

	rows := make([][]string, 0, n)
	for _, rec := range result.Records[:n] {
		title, _ := rec.Get(model.FieldTitle)
		price, _ := rec.Get(model.FieldPrice)
		rows = append(rows, []string{title, price, "`" + rec.URL() + "`"})
	}

	md.H2("Preview")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Title", "Price", "URL"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFailures writes the failed URL listing, if any.
func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, result *model.Result) {
	failures := result.Stats.Failures
	if len(failures) == 0 {
		return
	}

	items := make([]string, 0, len(failures))
	for _, f := range failures {
		items = append(items, "`"+f.URL+"`: "+f.Reason)
	}

	md.H2("Failures")
	md.PlainText("")
	md.BulletList(items...)
	md.PlainText("")
}

// humanizeField turns a snake_case field name into a title-cased label.
func humanizeField(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}
