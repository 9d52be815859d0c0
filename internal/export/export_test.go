package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitescout/sitescout/internal/types"
)

func exportPages() []types.CrawledPage {
	return []types.CrawledPage{
		{URL: "https://x.com/", Title: "Home", StatusCode: 200, Depth: 0, LoadTimeMs: 12, WordCount: 100},
		{URL: "https://x.com/a", Title: "A", StatusCode: 200, Depth: 1, LoadTimeMs: 8, WordCount: 50},
		{URL: "https://x.com/redirected", Title: "R", StatusCode: 301, Depth: 1},
	}
}

func TestExportJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "pages.json")
	require.NoError(t, ExportJSON(exportPages(), out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var loaded []types.CrawledPage
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, exportPages(), loaded)
}

func TestExportCSV(t *testing.T) {
	out := filepath.Join(t.TempDir(), "pages.csv")
	require.NoError(t, ExportCSV(exportPages(), out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "URL,Title,StatusCode,Depth,LoadTimeMs,WordCount", lines[0])
	assert.Contains(t, lines[1], "https://x.com/,Home,200,0,12,100")
}

func TestExportSitemap(t *testing.T) {
	out := filepath.Join(t.TempDir(), "sitemap.xml")
	result := &types.CrawlResult{
		Pages:     exportPages(),
		CrawledAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	count, err := ExportSitemap(result, SitemapConfig{
		OutputFile:        out,
		IncludeLastmod:    true,
		IncludeChangefreq: true,
		DefaultPriority:   0.8,
	})
	require.NoError(t, err)
	// The 301 page is skipped.
	assert.Equal(t, 2, count)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "<loc>https://x.com/</loc>")
	assert.Contains(t, content, "<changefreq>weekly</changefreq>")
	assert.Contains(t, content, "2025-06-01T00:00:00Z")
	assert.NotContains(t, content, "redirected")
}
