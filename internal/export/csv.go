package export

import (
	"encoding/csv"
	"io"

	"github.com/shopcrawl/shopcrawl/internal/model"
)

// CSVWriter outputs results as CSV.
// This format is designed for spreadsheets and downstream data tooling.
//
// The header row lists the canonical columns first, then any extra
// fields in the order they were first seen across the records. A record
// missing a column renders it as an empty cell. Zero records still
// produce the header row, so the file shape is stable.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the result in CSV format.
// encoding/csv handles quoting of commas, quotes, and newlines inside
// field values.
func (w *CSVWriter) Write(result *model.Result) (int, error) {
	counting := &countingWriter{w: w.output}
	enc := csv.NewWriter(counting)

	cols := columns(result)
	if err := enc.Write(cols); err != nil {
		return counting.n, err
	}

	row := make([]string, len(cols))
	for _, rec := range result.Records {
		for i, name := range cols {
			row[i], _ = rec.Get(name)
		}
		if err := enc.Write(row); err != nil {
			return counting.n, err
		}
	}

	enc.Flush()
	return counting.n, enc.Error()
}
