// Package knowledge condenses a finished crawl into a knowledge base: site
// profile heuristics, schema.org coverage, keyword summary, and link-health
// counts. The output drives templated content generation and the serve
// layer's bot-facing responses.
package knowledge

import (
	"sort"
	"strings"
	"time"

	"github.com/sitescout/sitescout/internal/types"
)

// Base is the synthesized knowledge-base summary of one crawl.
type Base struct {
	CrawlID     string    `json:"crawl_id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	GeneratedAt time.Time `json:"generated_at"`

	TotalPages int `json:"total_pages"`
	TotalWords int `json:"total_words"`

	Industry   string `json:"industry"`
	Audience   string `json:"audience"`
	BrandVoice string `json:"brand_voice"`

	SchemaTypes    map[string]int `json:"schema_types,omitempty"`
	TopKeywords    []string       `json:"top_keywords,omitempty"`
	DuplicatePages [][]string     `json:"duplicate_pages,omitempty"`

	OrphanPageCount int `json:"orphan_page_count"`
	BrokenLinkCount int `json:"broken_link_count"`

	Pages []PageSummary `json:"pages"`
}

// PageSummary is the per-page slice of the knowledge base.
type PageSummary struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Depth     int    `json:"depth"`
	WordCount int    `json:"word_count"`
}

// Build synthesizes the knowledge base from a crawl result and its link map.
func Build(result *types.CrawlResult, lm *types.LinkMap) *Base {
	base := &Base{
		CrawlID:     result.ID,
		URL:         result.URL,
		Title:       result.Title,
		Description: result.Description,
		GeneratedAt: time.Now().UTC(),
		TotalPages:  result.TotalPages,
		SchemaTypes: make(map[string]int),
	}

	var corpus strings.Builder
	for _, page := range result.Pages {
		base.TotalWords += page.WordCount
		base.Pages = append(base.Pages, PageSummary{
			URL:       page.URL,
			Title:     page.Title,
			Depth:     page.Depth,
			WordCount: page.WordCount,
		})
		for _, st := range page.SchemaTypes {
			base.SchemaTypes[st]++
		}
		corpus.WriteString(strings.ToLower(page.Title))
		corpus.WriteByte(' ')
		corpus.WriteString(strings.ToLower(page.RawContent))
		corpus.WriteByte(' ')
	}

	text := corpus.String()
	base.Industry = classify(text, industryKeywords, "general")
	base.Audience = classify(text, audienceKeywords, "consumers")
	base.BrandVoice = classify(text, voiceKeywords, "neutral")
	base.TopKeywords = topWords(text, 10)
	base.DuplicatePages = duplicateGroups(result.Pages)

	if lm != nil {
		base.OrphanPageCount = len(lm.OrphanPages)
		base.BrokenLinkCount = len(lm.BrokenLinks)
	}

	return base
}

// classify picks the label whose keyword list has the highest total
// substring count in text; fallback wins ties at zero.
func classify(text string, keywords map[string][]string, fallback string) string {
	best := fallback
	bestScore := 0

	labels := make([]string, 0, len(keywords))
	for label := range keywords {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		score := 0
		for _, kw := range keywords[label] {
			score += strings.Count(text, kw)
		}
		if score > bestScore {
			bestScore = score
			best = label
		}
	}
	return best
}

var industryKeywords = map[string][]string{
	"technology": {"software", "api", "cloud", "developer", "saas", "platform", "integration"},
	"ecommerce":  {"cart", "checkout", "shipping", "product", "shop", "order", "sale"},
	"healthcare": {"patient", "clinic", "treatment", "medical", "health", "doctor"},
	"finance":    {"investment", "loan", "banking", "insurance", "portfolio", "trading"},
	"education":  {"course", "student", "learning", "curriculum", "lesson", "tuition"},
	"legal":      {"attorney", "lawyer", "legal", "litigation", "counsel"},
	"realestate": {"property", "listing", "mortgage", "realtor", "apartment"},
}

var audienceKeywords = map[string][]string{
	"businesses": {"enterprise", "b2b", "teams", "organizations", "roi", "workflow"},
	"consumers":  {"you", "your family", "home", "everyday", "free shipping"},
	"developers": {"sdk", "api reference", "documentation", "github", "cli", "endpoint"},
}

var voiceKeywords = map[string][]string{
	"formal":    {"furthermore", "pursuant", "hereby", "comprehensive", "accordingly"},
	"casual":    {"hey", "awesome", "let's", "super", "easy"},
	"technical": {"configure", "deploy", "architecture", "implementation", "protocol"},
}

// stopwords excluded from keyword frequency ranking.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "our": true,
	"your": true, "with": true, "this": true, "that": true, "from": true,
	"have": true, "more": true, "will": true, "was": true, "one": true,
	"about": true, "their": true, "there": true, "what": true, "when": true,
	"into": true, "them": true, "then": true, "they": true, "were": true,
	"been": true, "has": true, "its": true, "also": true, "how": true,
}

// topWords returns the n most frequent words of length > 2 in text,
// descending by count with alphabetical tie-breaks for determinism.
func topWords(text string, n int) []string {
	counts := make(map[string]int)
	for _, word := range strings.Fields(text) {
		word = strings.Trim(word, ".,;:!?()[]{}\"'")
		if len(word) <= 2 || stopwords[word] {
			continue
		}
		counts[word]++
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > n {
		words = words[:n]
	}
	return words
}

// duplicateGroups clusters pages sharing a content hash.
func duplicateGroups(pages []types.CrawledPage) [][]string {
	byHash := make(map[string][]string)
	order := make([]string, 0)
	for _, p := range pages {
		if p.ContentHash == "" {
			continue
		}
		if _, seen := byHash[p.ContentHash]; !seen {
			order = append(order, p.ContentHash)
		}
		byHash[p.ContentHash] = append(byHash[p.ContentHash], p.URL)
	}

	groups := make([][]string, 0)
	for _, hash := range order {
		if urls := byHash[hash]; len(urls) > 1 {
			groups = append(groups, urls)
		}
	}
	return groups
}
