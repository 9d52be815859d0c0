package types

import (
	"time"
)

// Config holds crawler configuration
type Config struct {
	SeedURL   string        `json:"seed_url" yaml:"seed_url"`
	MaxPages  int           `json:"max_pages" yaml:"max_pages"`
	MaxDepth  int           `json:"max_depth" yaml:"max_depth"`
	Timeout   time.Duration `json:"timeout" yaml:"-"`
	DataDir   string        `json:"data_dir" yaml:"data_dir"`
	UserAgent string        `json:"user_agent" yaml:"user_agent"`

	// Optional glob patterns applied to discovered internal URLs.
	IncludePatterns []string `json:"include_patterns,omitempty" yaml:"include_patterns"`
	ExcludePatterns []string `json:"exclude_patterns,omitempty" yaml:"exclude_patterns"`

	EnableSQLite bool `json:"enable_sqlite" yaml:"enable_sqlite"`
}

// Defaults applied when the caller leaves Config fields zero.
const (
	DefaultMaxPages  = 50
	DefaultMaxDepth  = 3
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "SiteScoutBot/1.0 (+https://github.com/sitescout/sitescout)"
)

// ApplyDefaults fills unset fields with crawl defaults.
func (c *Config) ApplyDefaults() {
	if c.MaxPages <= 0 {
		c.MaxPages = DefaultMaxPages
	}
	if c.MaxDepth < 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
}

// URLItem represents a URL in the frontier
type URLItem struct {
	URL       string `json:"url"`
	Depth     int    `json:"depth"`
	ParentURL string `json:"parent_url,omitempty"`
}

// CrawledPage is one fetched document. Exactly one exists per distinct URL
// per crawl; Depth is the discovery depth at which the URL was first
// enqueued. Never mutated after it is recorded.
type CrawledPage struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	RawContent  string `json:"raw_content"`
	HTML        string `json:"html,omitempty"`
	StatusCode  int    `json:"status_code"`
	Depth       int    `json:"depth"`
	LoadTimeMs  int64  `json:"load_time_ms"`
	WordCount   int    `json:"word_count"`
	ContentHash string `json:"content_hash,omitempty"`

	// schema.org types detected on the page (JSON-LD and microdata).
	SchemaTypes []string `json:"schema_types,omitempty"`
}

// ExtractedLink is a resolved link discovered on a page.
type ExtractedLink struct {
	Href       string `json:"href"`
	Text       string `json:"text"`
	IsInternal bool   `json:"is_internal"`
	IsExternal bool   `json:"is_external"`
}

// SitePage is one node of the derived site hierarchy. Depth here is
// path-segment depth, not crawl BFS depth.
type SitePage struct {
	URL      string   `json:"url"`
	Title    string   `json:"title"`
	Depth    int      `json:"depth"`
	Parent   string   `json:"parent,omitempty"`
	Children []string `json:"children,omitempty"`
}

// LinkMap is the aggregate link-graph output of a crawl.
type LinkMap struct {
	InternalLinks map[string][]string `json:"internal_links"`
	ExternalLinks map[string][]string `json:"external_links"`
	Sitemaps      []string            `json:"sitemaps,omitempty"`
	BrokenLinks   []string            `json:"broken_links,omitempty"`
	OrphanPages   []string            `json:"orphan_pages,omitempty"`
	SiteStructure []SitePage          `json:"site_structure,omitempty"`
}

// CrawlResult is the final return value of a crawl.
type CrawlResult struct {
	ID          string        `json:"id"`
	URL         string        `json:"url"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Pages       []CrawledPage `json:"pages"`
	TotalPages  int           `json:"total_pages"`
	CrawledAt   time.Time     `json:"crawled_at"`
	Duration    time.Duration `json:"duration"`
}
