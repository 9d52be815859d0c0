package extractor

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractSchemaTypes collects schema.org @type values from JSON-LD blocks
// and microdata itemtype attributes. Must run before clean() strips the
// <script> elements that carry JSON-LD.
func extractSchemaTypes(doc *goquery.Document) []string {
	seen := make(map[string]bool)
	schemaTypes := make([]string, 0)

	add := func(t string) {
		t = strings.TrimSpace(t)
		t = strings.TrimPrefix(t, "https://schema.org/")
		t = strings.TrimPrefix(t, "http://schema.org/")
		if t == "" || seen[t] {
			return
		}
		seen[t] = true
		schemaTypes = append(schemaTypes, t)
	}

	doc.Find(`script[type="application/ld+json"]`).Each(func(i int, s *goquery.Selection) {
		var payload any
		if err := json.Unmarshal([]byte(s.Text()), &payload); err != nil {
			return
		}
		collectTypes(payload, add)
	})

	doc.Find("[itemtype]").Each(func(i int, s *goquery.Selection) {
		if itemtype, ok := s.Attr("itemtype"); ok {
			add(itemtype)
		}
	})

	return schemaTypes
}

// collectTypes walks decoded JSON-LD for "@type" values at any nesting level.
func collectTypes(v any, add func(string)) {
	switch node := v.(type) {
	case map[string]any:
		if t, ok := node["@type"]; ok {
			switch typed := t.(type) {
			case string:
				add(typed)
			case []any:
				for _, item := range typed {
					if s, ok := item.(string); ok {
						add(s)
					}
				}
			}
		}
		// Recurse in sorted key order; map iteration order would leak
		// into the SchemaTypes slice otherwise.
		keys := make([]string, 0, len(node))
		for key := range node {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			collectTypes(node[key], add)
		}
	case []any:
		for _, child := range node {
			collectTypes(child, add)
		}
	}
}
