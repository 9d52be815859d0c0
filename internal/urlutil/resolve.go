package urlutil

import (
	"net/url"
	"strings"
)

// Resolve converts an href found on pageURL into an absolute URL.
// Fragment-only, javascript:, mailto: and tel: hrefs are not navigable and
// return ok=false. Malformed hrefs are dropped the same way.
func Resolve(href, pageURL string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") {
		return "", false
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return "", false
	}

	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	resolved := base.ResolveReference(u)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}

	resolved.Fragment = ""
	return resolved.String(), true
}

// IsInternal reports whether rawURL belongs to the crawl's site. A URL is
// internal iff its hostname exactly equals the seed's hostname; subdomains
// count as external.
func IsInternal(rawURL, seedURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	seed, err := url.Parse(seedURL)
	if err != nil {
		return false
	}
	return u.Hostname() == seed.Hostname()
}

// Origin reduces rawURL to its scheme://host origin.
func Origin(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return u.Scheme + "://" + u.Host, nil
}

// PathSegments returns the non-empty path segments of rawURL, or nil when
// the URL does not parse.
func PathSegments(rawURL string) []string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	parts := strings.Split(u.Path, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}
