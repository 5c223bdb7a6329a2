package crawler

import "errors"

// ErrStartPageUnreachable is returned when the start listing page cannot
// be fetched or parsed after all retries. Without a first listing page
// there is nothing to crawl, so the run aborts instead of producing an
// empty result that looks like a successful scrape.
var ErrStartPageUnreachable = errors.New("start page unreachable")
