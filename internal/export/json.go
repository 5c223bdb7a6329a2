package export

import (
	"encoding/json"
	"io"

	"github.com/shopcrawl/shopcrawl/internal/model"
)

// JSONWriter outputs results as a JSON array of records.
// This format is designed for tool integration and programmatic processing.
//
// Record order follows discovery order and each object's keys follow the
// record's field insertion order, so repeated runs against the same site
// produce byte-identical output.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because:
//  1. Record implements json.Marshaler, which already controls key order
//  2. It's sufficient for our needs
//  3. It provides consistent behavior across Go versions
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the records in JSON format.
// Zero records produce an empty array, never null.
func (w *JSONWriter) Write(result *model.Result) (int, error) {
	records := result.Records
	if records == nil {
		records = []*model.Record{}
	}

	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(records, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(records)
	}
	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
