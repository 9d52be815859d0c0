package generator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitescout/sitescout/internal/knowledge"
)

func sampleBase() *knowledge.Base {
	return &knowledge.Base{
		CrawlID:     "g1",
		URL:         "https://acme.com/",
		Title:       "Acme Widgets",
		Description: "Widgets for every occasion",
		TotalPages:  2,
		TotalWords:  120,
		Industry:    "ecommerce",
		Audience:    "consumers",
		BrandVoice:  "casual",
		TopKeywords: []string{"widgets", "gadgets"},
		SchemaTypes: map[string]int{"Product": 2},
		Pages: []knowledge.PageSummary{
			{URL: "https://acme.com/", Title: "Acme Widgets", WordCount: 80},
			{URL: "https://acme.com/shop", Title: "Shop", WordCount: 40},
		},
	}
}

func TestRenderSummary(t *testing.T) {
	doc, err := RenderSummary(sampleBase())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc, "---\n"))
	assert.Contains(t, doc, "title: Acme Widgets")
	assert.Contains(t, doc, "industry: ecommerce")
	assert.Contains(t, doc, "# Acme Widgets")
	assert.Contains(t, doc, "- Pages crawled: 2")
	assert.Contains(t, doc, "- Product: 2 page(s)")
	assert.Contains(t, doc, "[Shop](https://acme.com/shop)")
}

func TestRenderSummaryUntitled(t *testing.T) {
	base := sampleBase()
	base.Title = ""
	doc, err := RenderSummary(base)
	require.NoError(t, err)
	assert.Contains(t, doc, "title: https://acme.com/")
}

func TestWriteSummary(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteSummary(sampleBase(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "acme-widgets.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Acme Widgets")
}
