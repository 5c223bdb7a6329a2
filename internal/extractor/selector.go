package extractor

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shopcrawl/shopcrawl/internal/config"
	"github.com/shopcrawl/shopcrawl/internal/model"
)

// SelectorExtractor extracts data using the CSS selectors of a site
// profile.
//
// Design decision: We build on goquery rather than walking the node tree
// of x/net/html directly because:
//  1. Profiles express extraction rules as CSS selectors, goquery's
//     native query language
//  2. It tolerates the malformed HTML real shops serve
//  3. First-match and attribute access are one-liners instead of
//     hand-rolled tree walks
type SelectorExtractor struct {
	// profile holds the selectors driving extraction.
	profile config.SiteProfile
}

// NewSelectorExtractor creates an extractor driven by the given profile.
func NewSelectorExtractor(profile config.SiteProfile) *SelectorExtractor {
	return &SelectorExtractor{profile: profile}
}

// ExtractLinks implements Extractor.
//
// Item links are matched by the profile's listing selector. A matched
// element that is not itself an anchor contributes its first descendant
// anchor, so both "div.product-item a" and "div.product-item" profiles
// work. Links are resolved against baseURL, stripped of fragments, and
// deduplicated preserving first-seen order.
func (e *SelectorExtractor) ExtractLinks(content, baseURL string) ([]string, string, error) {
	base, err := url.Parse(baseURL)
	if err != nil || !base.IsAbs() {
		return nil, "", fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, "", fmt.Errorf("parse listing page: %w", err)
	}

	seen := make(map[string]bool)
	var items []string
	doc.Find(e.profile.Listing).Each(func(_ int, s *goquery.Selection) {
		link := resolveLink(base, hrefOf(s))
		if link == "" || seen[link] {
			return
		}
		seen[link] = true
		items = append(items, link)
	})

	nextPage := ""
	if e.profile.NextPage != "" {
		nextPage = resolveLink(base, hrefOf(doc.Find(e.profile.NextPage).First()))
	}

	return items, nextPage, nil
}

// ExtractRecord implements Extractor.
func (e *SelectorExtractor) ExtractRecord(content, pageURL string) (*model.Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse item page: %w", err)
	}

	record := model.NewRecord()
	record.Set(model.FieldURL, pageURL)
	// Reserve the canonical field order before profile rules run,
	// so site-specific extras always land after it
	for _, name := range model.CanonicalFields()[1:] {
		record.Set(name, "")
	}

	for _, rule := range e.profile.Fields {
		record.Set(rule.Name, extractField(doc, rule))
	}

	return record, nil
}

// extractField evaluates one field rule against the document.
// The first match wins; no match yields "".
func extractField(doc *goquery.Document, rule config.FieldRule) string {
	sel := doc.Find(rule.Query).First()
	if sel.Length() == 0 {
		return ""
	}

	if rule.Attr != "" {
		v, _ := sel.Attr(rule.Attr)
		return cleanText(v)
	}
	return cleanText(sel.Text())
}

// hrefOf returns the href of the selection, falling back to the first
// descendant anchor when the matched element has none.
func hrefOf(s *goquery.Selection) string {
	if href, ok := s.Attr("href"); ok {
		return href
	}
	href, _ := s.Find("a[href]").First().Attr("href")
	return href
}

// resolveLink resolves href against base and returns an absolute http(s)
// URL with its fragment stripped, or "" for links a scraper must not
// follow.
func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return ""
	}

	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "javascript:") ||
		strings.HasPrefix(lower, "mailto:") ||
		strings.HasPrefix(lower, "tel:") ||
		strings.HasPrefix(lower, "data:") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(u)
	resolved.Fragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

// cleanText trims and collapses all whitespace runs to single spaces.
// Shop templates indent text nodes heavily; without this, descriptions
// arrive full of newlines and tab runs.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
