package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gobwas/glob"
	"github.com/google/uuid"

	"github.com/sitescout/sitescout/internal/extractor"
	"github.com/sitescout/sitescout/internal/fetcher"
	"github.com/sitescout/sitescout/internal/sitemap"
	"github.com/sitescout/sitescout/internal/types"
)

// maxLinksPerPage caps outbound fan-out per page: only the first N internal
// links in DOM order are considered for the frontier.
const maxLinksPerPage = 20

// ErrSeedUnreachable is returned when the seed URL itself cannot be
// fetched. This is the only condition that aborts a crawl; every other
// page failure is logged and skipped.
var ErrSeedUnreachable = errors.New("seed URL unreachable")

// PageSink receives pages as they are recorded, for incremental
// persistence. Implementations must tolerate being called once per page in
// discovery order.
type PageSink interface {
	WritePage(page types.CrawledPage) error
}

// Outcome bundles everything a finished crawl produced. PageLinks holds
// every link extracted per crawled page, duplicates preserved in DOM
// order; the link graph is derived from it after the crawl.
type Outcome struct {
	Result    *types.CrawlResult
	PageLinks map[string][]types.ExtractedLink
	Sitemaps  []string
}

// Engine drives a breadth-first, depth-bounded crawl of a single site.
// All mutable crawl state lives in a per-invocation session, so one Engine
// can safely serve concurrent Crawl calls with different seeds only if
// configured per seed; in practice construct one Engine per crawl.
type Engine struct {
	config     types.Config
	fetcher    *fetcher.Fetcher
	extractor  *extractor.Extractor
	discoverer *sitemap.Discoverer
	logger     *log.Logger
	sink       PageSink

	includes []glob.Glob
	excludes []glob.Glob
}

// New validates config and creates a crawl engine.
func New(config types.Config, logger *log.Logger) (*Engine, error) {
	config.ApplyDefaults()

	if config.SeedURL == "" {
		return nil, fmt.Errorf("seed URL is required")
	}
	seed, err := url.Parse(config.SeedURL)
	if err != nil || seed.Host == "" || (seed.Scheme != "http" && seed.Scheme != "https") {
		return nil, fmt.Errorf("invalid seed URL %q", config.SeedURL)
	}

	ext, err := extractor.New(config.SeedURL)
	if err != nil {
		return nil, err
	}

	includes, err := compileGlobs(config.IncludePatterns)
	if err != nil {
		return nil, fmt.Errorf("invalid include pattern: %w", err)
	}
	excludes, err := compileGlobs(config.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude pattern: %w", err)
	}

	f := fetcher.New(fetcher.Options{
		UserAgent: config.UserAgent,
		Timeout:   config.Timeout,
	})

	return &Engine{
		config:     config,
		fetcher:    f,
		extractor:  ext,
		discoverer: sitemap.New(f, logger),
		logger:     logger,
		includes:   includes,
		excludes:   excludes,
	}, nil
}

// SetSink registers an optional incremental page sink.
func (e *Engine) SetSink(sink PageSink) {
	e.sink = sink
}

// session owns all mutable state of one crawl invocation and is discarded
// when the crawl returns.
type session struct {
	frontier  *Frontier
	pages     []types.CrawledPage
	pageLinks map[string][]types.ExtractedLink
	sitemaps  []string
	seedHost  string
	origin    string

	seedTitle       string
	seedDescription string
}

// Crawl runs to completion: it drains the frontier in FIFO order until the
// frontier is empty or the page budget is reached, and always returns
// whatever was gathered. The only error condition is a seed that could not
// be fetched at the transport level.
func (e *Engine) Crawl(ctx context.Context) (*Outcome, error) {
	start := time.Now()

	seed, err := url.Parse(e.config.SeedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL: %w", err)
	}

	s := &session{
		frontier:  NewFrontier(),
		pages:     make([]types.CrawledPage, 0, e.config.MaxPages),
		pageLinks: make(map[string][]types.ExtractedLink),
		seedHost:  seed.Hostname(),
		origin:    seed.Scheme + "://" + seed.Host,
	}

	e.logger.Info("starting crawl",
		"seed", e.config.SeedURL,
		"max_pages", e.config.MaxPages,
		"max_depth", e.config.MaxDepth)

	// Seed fetch. A transport failure here is the one fatal error.
	s.frontier.Add(types.URLItem{URL: e.config.SeedURL, Depth: 0})
	seedItem, _ := s.frontier.Next()
	if err := e.visit(ctx, s, seedItem); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSeedUnreachable, err)
	}

	// One-shot sitemap discovery, capped by the remaining page budget.
	// Sitemap-seeded URLs carry no meaningful hop count; they are treated
	// as depth 1 for budget purposes.
	discovered := e.discoverer.Discover(ctx, s.origin)
	s.sitemaps = discovered.Sitemaps
	budget := e.config.MaxPages - s.frontier.SeenCount()
	for _, u := range discovered.URLs {
		if budget <= 0 {
			break
		}
		if s.frontier.Add(types.URLItem{URL: u, Depth: 1, ParentURL: s.origin}) {
			budget--
		}
	}

	// Drain the frontier breadth-first.
	for len(s.pages) < e.config.MaxPages {
		item, ok := s.frontier.Next()
		if !ok {
			break
		}
		if item.Depth > e.config.MaxDepth {
			continue
		}
		if host := hostOf(item.URL); host != s.seedHost {
			continue
		}
		if err := e.visit(ctx, s, item); err != nil {
			e.logger.Warn("page fetch failed", "url", item.URL, "depth", item.Depth, "err", err)
		}
	}

	result := &types.CrawlResult{
		ID:         uuid.NewString(),
		URL:        e.config.SeedURL,
		Pages:      s.pages,
		TotalPages: len(s.pages),
		CrawledAt:  start,
		Duration:   time.Since(start),
	}
	result.Title = s.seedTitle
	result.Description = s.seedDescription

	e.logger.Info("crawl finished",
		"pages", len(s.pages),
		"duration", result.Duration.Round(time.Millisecond))

	return &Outcome{
		Result:    result,
		PageLinks: s.pageLinks,
		Sitemaps:  s.sitemaps,
	}, nil
}

// visit fetches one URL, records the page, and enqueues its outbound
// internal links. Transport errors propagate; the caller decides whether
// they are fatal (seed) or skippable (everything else).
func (e *Engine) visit(ctx context.Context, s *session, item types.URLItem) error {
	res, err := e.fetcher.Fetch(ctx, item.URL)
	if err != nil {
		return err
	}

	// HTTP-error responses are not crawled pages; their URLs surface later
	// as broken links if anything pointed at them.
	if res.StatusCode >= 400 {
		e.logger.Debug("page rejected", "url", item.URL, "status", res.StatusCode)
		return nil
	}

	content, err := e.extractor.Extract(res.HTML, item.URL)
	if err != nil {
		return err
	}

	page := types.CrawledPage{
		URL:         item.URL,
		Title:       content.Title,
		RawContent:  content.Text,
		HTML:        content.CleanHTML,
		StatusCode:  res.StatusCode,
		Depth:       item.Depth,
		LoadTimeMs:  res.LoadTimeMs,
		WordCount:   content.WordCount,
		ContentHash: content.ContentHash,
		SchemaTypes: content.SchemaTypes,
	}
	s.pages = append(s.pages, page)
	s.pageLinks[item.URL] = content.Links
	if item.Depth == 0 && s.seedTitle == "" {
		s.seedTitle = content.Title
		s.seedDescription = content.Metadata.Description
	}

	if e.sink != nil {
		if err := e.sink.WritePage(page); err != nil {
			e.logger.Warn("page sink write failed", "url", item.URL, "err", err)
		}
	}

	e.logger.Debug("page crawled",
		"url", item.URL,
		"depth", item.Depth,
		"links", len(content.Links),
		"load_ms", res.LoadTimeMs)

	// Enqueue the first N internal links in DOM order.
	taken := 0
	for _, link := range content.Links {
		if !link.IsInternal {
			continue
		}
		if taken >= maxLinksPerPage {
			break
		}
		taken++
		if !e.allowed(link.Href) {
			continue
		}
		s.frontier.Add(types.URLItem{
			URL:       link.Href,
			Depth:     item.Depth + 1,
			ParentURL: item.URL,
		})
	}

	return nil
}

// allowed applies the configured include/exclude glob patterns.
func (e *Engine) allowed(rawURL string) bool {
	for _, g := range e.excludes {
		if g.Match(rawURL) {
			return false
		}
	}
	if len(e.includes) == 0 {
		return true
	}
	for _, g := range e.includes {
		if g.Match(rawURL) {
			return true
		}
	}
	return false
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
