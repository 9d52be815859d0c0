// Package linkgraph derives the internal/external link graph of a finished
// crawl: adjacency maps, broken links, orphan pages, and the path-based
// site hierarchy. Build is a pure function of the crawl's page set and
// per-page extracted links; for a fixed input its output is deterministic.
package linkgraph

import (
	"sort"
	"strings"

	"github.com/sitescout/sitescout/internal/types"
	"github.com/sitescout/sitescout/internal/urlutil"
)

// Build produces the LinkMap for a completed crawl. pageLinks maps a
// crawled page URL to every link extracted from it, duplicates preserved
// in discovery order.
func Build(pages []types.CrawledPage, pageLinks map[string][]types.ExtractedLink, sitemaps []string) *types.LinkMap {
	crawled := make(map[string]bool, len(pages))
	for _, p := range pages {
		crawled[p.URL] = true
	}

	lm := &types.LinkMap{
		InternalLinks: make(map[string][]string),
		ExternalLinks: make(map[string][]string),
		Sitemaps:      append([]string(nil), sitemaps...),
	}

	// incoming records, per internal target, the distinct source pages
	// linking to it. Self-links are excluded so a page cannot rescue
	// itself from orphan status.
	incoming := make(map[string]map[string]bool)

	for _, page := range pages {
		for _, link := range pageLinks[page.URL] {
			if link.IsInternal {
				lm.InternalLinks[page.URL] = append(lm.InternalLinks[page.URL], link.Href)
				if link.Href != page.URL {
					if incoming[link.Href] == nil {
						incoming[link.Href] = make(map[string]bool)
					}
					incoming[link.Href][page.URL] = true
				}
			} else {
				lm.ExternalLinks[page.URL] = append(lm.ExternalLinks[page.URL], link.Href)
			}
		}
	}

	// Broken links: internal targets never present as a crawled page,
	// whether out of budget, too deep, or failed to fetch. Deduplicated,
	// first-occurrence order.
	brokenSeen := make(map[string]bool)
	for _, page := range pages {
		for _, target := range lm.InternalLinks[page.URL] {
			if crawled[target] || brokenSeen[target] {
				continue
			}
			brokenSeen[target] = true
			lm.BrokenLinks = append(lm.BrokenLinks, target)
		}
	}

	// Orphan pages: crawled pages with no inbound internal link from any
	// other crawled page, in crawl discovery order.
	for _, page := range pages {
		if len(incoming[page.URL]) == 0 {
			lm.OrphanPages = append(lm.OrphanPages, page.URL)
		}
	}

	lm.SiteStructure = buildSiteStructure(pages)

	return lm
}

// buildSiteStructure arranges crawled pages into a forest keyed by URL path
// prefix. Depth is path-segment depth, independent of crawl BFS depth: a
// top-level page like /about sits at depth 0.
func buildSiteStructure(pages []types.CrawledPage) []types.SitePage {
	type node struct {
		page     types.CrawledPage
		segments []string
	}

	nodes := make([]node, 0, len(pages))
	for _, p := range pages {
		nodes = append(nodes, node{page: p, segments: urlutil.PathSegments(p.URL)})
	}

	// Ascending path-segment count; stable so crawl order breaks ties.
	sort.SliceStable(nodes, func(i, j int) bool {
		return len(nodes[i].segments) < len(nodes[j].segments)
	})

	structure := make([]types.SitePage, len(nodes))
	for i, n := range nodes {
		depth := len(n.segments) - 1
		if depth < 0 {
			depth = 0
		}
		structure[i] = types.SitePage{
			URL:   n.page.URL,
			Title: n.page.Title,
			Depth: depth,
		}
	}

	// Parent: the crawled page whose path is the longest strict prefix of
	// this page's path on the same origin. Children are the inverse.
	for i, n := range nodes {
		parentIdx := -1
		parentLen := -1
		for j, candidate := range nodes {
			if i == j || candidate.page.URL == n.page.URL {
				continue
			}
			if !sameOrigin(candidate.page.URL, n.page.URL) {
				continue
			}
			if len(candidate.segments) >= len(n.segments) {
				continue
			}
			if !isPrefix(candidate.segments, n.segments) {
				continue
			}
			if len(candidate.segments) > parentLen {
				parentLen = len(candidate.segments)
				parentIdx = j
			}
		}
		if parentIdx >= 0 {
			structure[i].Parent = structure[parentIdx].URL
			structure[parentIdx].Children = append(structure[parentIdx].Children, n.page.URL)
		}
	}

	return structure
}

func isPrefix(prefix, segments []string) bool {
	if len(prefix) > len(segments) {
		return false
	}
	for i := range prefix {
		if prefix[i] != segments[i] {
			return false
		}
	}
	return true
}

func sameOrigin(a, b string) bool {
	oa, errA := urlutil.Origin(a)
	ob, errB := urlutil.Origin(b)
	return errA == nil && errB == nil && strings.EqualFold(oa, ob)
}
