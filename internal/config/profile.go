package config

// FieldRule maps one record field to a CSS selector.
type FieldRule struct {
	// Name is the record field the rule fills (e.g. "title", "price").
	Name string `yaml:"name"`

	// Query is the CSS selector evaluated against the item page.
	// The first match wins.
	Query string `yaml:"query"`

	// Attr selects an attribute of the matched element instead of its
	// text content (e.g. "content" for meta tags). Empty means text.
	Attr string `yaml:"attr,omitempty"`
}

// SiteProfile holds the selectors and HTTP extras for scraping one site.
// This allows customizing extraction behavior per catalog.
type SiteProfile struct {
	// Listing is the CSS selector for item links on a listing page.
	// Each match's href is followed as an item page.
	Listing string `yaml:"listing,omitempty"`

	// NextPage is the CSS selector for the pagination link.
	// The first match's href is the next listing page; no match ends
	// pagination.
	NextPage string `yaml:"nextPage,omitempty"`

	// Fields are the extraction rules applied to each item page.
	Fields []FieldRule `yaml:"fields,omitempty"`

	// Cookie is an HTTP cookie to send when crawling this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// File represents the structure of the .shopcrawl profile file.
type File struct {
	// Sites maps hostnames to their site-specific profiles.
	// Keys are the host without the protocol (e.g. "books.example.com").
	Sites map[string]SiteProfile `yaml:"sites,omitempty"`

	// Defaults contains the default profile applied to all sites unless
	// overridden in the site-specific entry.
	Defaults SiteProfile `yaml:"defaults,omitempty"`
}

// DefaultProfile returns the built-in product-catalog profile.
// It matches the markup of typical listing/detail shop templates and is
// used when no profile file is present.
func DefaultProfile() SiteProfile {
	return SiteProfile{
		Listing:  "div.product-item a",
		NextPage: "a.next-page",
		Fields: []FieldRule{
			{Name: "title", Query: "h1.product-title"},
			{Name: "price", Query: "span.price"},
			{Name: "description", Query: "div.description"},
			{Name: "rating", Query: "span.rating"},
			{Name: "availability", Query: "span.stock"},
		},
	}
}

// ProfileFor returns the profile for a specific host.
// It layers the file's defaults over the built-in profile and the
// site-specific entry over both, so an empty file behaves exactly like
// the built-in defaults.
func (cf *File) ProfileFor(host string) SiteProfile {
	result := DefaultProfile()
	overlayProfile(&result, cf.Defaults)
	if site, ok := cf.Sites[host]; ok {
		overlayProfile(&result, site)
	}
	return result
}

// overlayProfile copies the set values of src over dst.
// Fields replace as a whole; headers merge per key.
func overlayProfile(dst *SiteProfile, src SiteProfile) {
	if src.Listing != "" {
		dst.Listing = src.Listing
	}
	if src.NextPage != "" {
		dst.NextPage = src.NextPage
	}
	if len(src.Fields) > 0 {
		dst.Fields = src.Fields
	}
	if src.Cookie != "" {
		dst.Cookie = src.Cookie
	}
	if len(src.Headers) > 0 {
		if dst.Headers == nil {
			dst.Headers = make(map[string]string)
		}
		for k, v := range src.Headers {
			dst.Headers[k] = v
		}
	}
}
