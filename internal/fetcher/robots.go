package fetcher

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// robotsGate caches parsed robots.txt data per host and answers whether
// a URL may be fetched.
//
// HTTP status handling follows the robots exclusion standard: a 4xx
// response allows everything, a 5xx response disallows everything. A
// robots.txt that cannot be retrieved over the network or parsed means
// allow-all. The robots.txt request itself does not go through the rate
// limiter or count as an attempt.
type robotsGate struct {
	// fetcher supplies the HTTP client and user agent.
	fetcher *Fetcher

	// mutex protects data.
	mutex sync.Mutex

	// data caches parsed robots.txt per host.
	// A nil entry means allow everything for that host.
	data map[string]*robotstxt.RobotsData
}

// allowed reports whether the URL may be fetched for the gate's user agent.
func (g *robotsGate) allowed(ctx context.Context, u *url.URL) bool {
	robots := g.dataFor(ctx, u)
	if robots == nil {
		return true
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return robots.TestAgent(path, g.fetcher.userAgent)
}

// dataFor returns the cached robots.txt data for the URL's host,
// fetching it on first use.
func (g *robotsGate) dataFor(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if g.data == nil {
		g.data = make(map[string]*robotstxt.RobotsData)
	}
	if robots, ok := g.data[u.Host]; ok {
		return robots
	}

	robots := g.fetch(ctx, u)
	g.data[u.Host] = robots
	return robots
}

// fetch retrieves and parses robots.txt for the URL's host.
// Network or parse failures yield nil, which callers treat as allow-all.
func (g *robotsGate) fetch(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", g.fetcher.userAgent)

	resp, err := g.fetcher.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	robots, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return robots
}
