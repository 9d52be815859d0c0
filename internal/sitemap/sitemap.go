package sitemap

import (
	"context"
	"net/http"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/charmbracelet/log"

	"github.com/sitescout/sitescout/internal/fetcher"
)

// wellKnownPaths are probed in order; discovery stops at the first path
// that yields a parseable sitemap with at least one usable <loc>.
var wellKnownPaths = []string{
	"/sitemap.xml",
	"/sitemap_index.xml",
	"/sitemap-index.xml",
}

// Result holds the outcome of sitemap discovery for one origin.
type Result struct {
	// Sitemaps lists the sitemap URLs that produced usable entries.
	Sitemaps []string
	// URLs are same-origin <loc> entries in document order.
	URLs []string
}

// Discoverer probes well-known sitemap locations for a crawl origin.
type Discoverer struct {
	fetcher *fetcher.Fetcher
	logger  *log.Logger
}

// New creates a Discoverer that shares the crawl's fetcher.
func New(f *fetcher.Fetcher, logger *log.Logger) *Discoverer {
	return &Discoverer{fetcher: f, logger: logger}
}

// Discover probes the well-known sitemap paths under origin. Probe failures
// (404, timeout, malformed XML) are non-fatal; a failed candidate simply
// yields nothing and the next is tried.
func (d *Discoverer) Discover(ctx context.Context, origin string) Result {
	origin = strings.TrimSuffix(origin, "/")

	var result Result
	for _, path := range wellKnownPaths {
		sitemapURL := origin + path

		res, err := d.fetcher.Fetch(ctx, sitemapURL)
		if err != nil {
			d.logger.Debug("sitemap probe failed", "url", sitemapURL, "err", err)
			continue
		}
		if res.StatusCode != http.StatusOK {
			d.logger.Debug("sitemap probe rejected", "url", sitemapURL, "status", res.StatusCode)
			continue
		}

		urls := parseLocs(res.HTML, origin)
		if len(urls) == 0 {
			continue
		}

		result.Sitemaps = append(result.Sitemaps, sitemapURL)
		result.URLs = urls
		break
	}

	return result
}

// parseLocs extracts <loc> values from sitemap XML, keeping only URLs that
// start with the crawl's base origin. Malformed XML yields nothing.
func parseLocs(xmlContent, origin string) []string {
	doc, err := xmlquery.Parse(strings.NewReader(xmlContent))
	if err != nil {
		return nil
	}

	urls := make([]string, 0)
	for _, node := range xmlquery.Find(doc, "//loc") {
		loc := strings.TrimSpace(node.InnerText())
		if loc == "" || !strings.HasPrefix(loc, origin) {
			continue
		}
		urls = append(urls, loc)
	}
	return urls
}
