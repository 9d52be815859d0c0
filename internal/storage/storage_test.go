package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitescout/sitescout/internal/types"
)

func samplePage(url string) types.CrawledPage {
	return types.CrawledPage{
		URL:         url,
		Title:       "Sample",
		RawContent:  "body text",
		HTML:        "<p>body text</p>",
		StatusCode:  200,
		Depth:       1,
		LoadTimeMs:  42,
		WordCount:   2,
		ContentHash: "00000000deadbeef",
	}
}

func TestPageLogRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	first := samplePage("https://x.com/")
	second := samplePage("https://x.com/a")
	require.NoError(t, s.WritePage(first))
	require.NoError(t, s.WritePage(second))

	pages, err := s.LoadPages()
	require.NoError(t, err)
	require.Len(t, pages, 2)

	// Write order and every field survive.
	assert.Equal(t, first, pages[0])
	assert.Equal(t, second, pages[1])
}

func TestLoadPagesMissingFile(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	// Remove the log the constructor created.
	require.NoError(t, s.Close())
	require.NoError(t, os.Remove(filepath.Join(s.dataDir, pagesLogFile)))

	pages, err := s.LoadPages()
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestCrawlResultRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	result := &types.CrawlResult{
		ID:          "c4f5",
		URL:         "https://x.com/",
		Title:       "Home",
		Description: "a site",
		Pages:       []types.CrawledPage{samplePage("https://x.com/")},
		TotalPages:  1,
		CrawledAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Duration:    1500 * time.Millisecond,
	}

	require.NoError(t, s.SaveCrawlResult(result))
	loaded, err := s.LoadCrawlResult()
	require.NoError(t, err)
	assert.Equal(t, result, loaded)
}

func TestLinkMapRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	lm := &types.LinkMap{
		InternalLinks: map[string][]string{"https://x.com/": {"https://x.com/a", "https://x.com/a"}},
		ExternalLinks: map[string][]string{"https://x.com/": {"https://other.com"}},
		Sitemaps:      []string{"https://x.com/sitemap.xml"},
		BrokenLinks:   []string{"https://x.com/gone"},
		OrphanPages:   []string{"https://x.com/"},
		SiteStructure: []types.SitePage{{URL: "https://x.com/", Title: "Home", Depth: 0}},
	}

	require.NoError(t, s.SaveLinkMap(lm))
	loaded, err := s.LoadLinkMap()
	require.NoError(t, err)
	assert.Equal(t, lm, loaded)
}

func TestLoadCrawlResultMissing(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	_, err = s.LoadCrawlResult()
	assert.Error(t, err)
}
