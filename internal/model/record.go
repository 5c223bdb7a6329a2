package model

import (
	"bytes"
	"encoding/json"
)

// Canonical field names present on every record, in output order.
// Extractors append site-specific fields after these.
const (
	// FieldURL is the URL of the item page. It is the record's identity:
	// two records with the same url describe the same item.
	FieldURL = "url"

	// FieldTitle is the item name or heading.
	FieldTitle = "title"

	// FieldPrice is the displayed price, kept as text (currency symbols
	// and thousand separators vary per site).
	FieldPrice = "price"

	// FieldDescription is the item description.
	FieldDescription = "description"

	// FieldRating is the displayed rating, kept as text.
	FieldRating = "rating"

	// FieldAvailability is the stock or availability label.
	FieldAvailability = "availability"

	// FieldScrapedAt is the timestamp the record was collected,
	// formatted with TimestampLayout.
	FieldScrapedAt = "scraped_at"
)

// TimestampLayout is the format used for the scraped_at field.
const TimestampLayout = "2006-01-02 15:04:05"

// CanonicalFields returns the field names every record carries,
// in the order they appear in exports.
func CanonicalFields() []string {
	return []string{
		FieldURL,
		FieldTitle,
		FieldPrice,
		FieldDescription,
		FieldRating,
		FieldAvailability,
		FieldScrapedAt,
	}
}

// Record represents one scraped item as an ordered collection of
// name/value pairs.
//
// Design decision: We keep fields in an ordered list instead of a plain map
// because:
//  1. CSV columns and JSON keys must come out in a stable, predictable order
//  2. Sites add extra fields; insertion order keeps them grouped after the
//     canonical columns
//  3. Go maps randomize iteration order, which would shuffle exports
type Record struct {
	// names holds field names in insertion order.
	names []string

	// values maps field names to their values.
	values map[string]string
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{
		values: make(map[string]string),
	}
}

// Set stores a field value. A new name is appended to the field order;
// an existing name is updated in place without reordering.
func (r *Record) Set(name, value string) {
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = value
}

// Get returns the value of the named field and whether the field exists.
func (r *Record) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Fields returns the field names in insertion order.
// The returned slice is a copy and safe to modify.
func (r *Record) Fields() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.names)
}

// URL returns the record's url field, or "" if unset.
func (r *Record) URL() string {
	return r.values[FieldURL]
}

// MarshalJSON encodes the record as a JSON object whose keys appear
// in field insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(r.values[name])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
