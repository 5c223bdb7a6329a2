package extractor

import (
	"errors"

	"github.com/shopcrawl/shopcrawl/internal/model"
)

// ErrInvalidBaseURL is returned when the base URL for link resolution
// is not an absolute URL.
var ErrInvalidBaseURL = errors.New("invalid base URL: must be absolute")

// Extractor extracts structured data from HTML pages.
//
// Implementations must be stateless with respect to calls: the crawler
// invokes ExtractRecord from multiple goroutines when workers are
// enabled.
type Extractor interface {
	// ExtractLinks parses a listing page and returns the absolute item
	// URLs in page order plus the absolute URL of the next listing page.
	// nextPage is "" when the page has no pagination link; that is not
	// an error.
	ExtractLinks(content, baseURL string) (items []string, nextPage string, err error)

	// ExtractRecord parses an item page into a record. The record always
	// carries the canonical fields in order, with "" for anything the
	// page does not provide. scraped_at is left empty for the crawler
	// to stamp.
	ExtractRecord(content, pageURL string) (*model.Record, error)
}
