package knowledge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitescout/sitescout/internal/types"
)

func techResult() *types.CrawlResult {
	return &types.CrawlResult{
		ID:          "kb-test",
		URL:         "https://dev.example/",
		Title:       "Dev Platform",
		Description: "APIs for builders",
		TotalPages:  2,
		Pages: []types.CrawledPage{
			{
				URL:         "https://dev.example/",
				Title:       "Dev Platform",
				RawContent:  "Our software platform offers a cloud API for every developer. Read the api reference and documentation, grab the sdk and cli.",
				WordCount:   21,
				Depth:       0,
				ContentHash: "h1",
				SchemaTypes: []string{"Organization", "WebSite"},
			},
			{
				URL:         "https://dev.example/docs",
				Title:       "Documentation",
				RawContent:  "Configure and deploy the platform. The architecture and implementation details live here. api api api.",
				WordCount:   16,
				Depth:       1,
				ContentHash: "h2",
				SchemaTypes: []string{"WebSite", "FAQPage"},
			},
		},
	}
}

func TestBuildProfile(t *testing.T) {
	lm := &types.LinkMap{
		OrphanPages: []string{"https://dev.example/"},
		BrokenLinks: []string{"https://dev.example/gone"},
	}

	base := Build(techResult(), lm)

	assert.Equal(t, "kb-test", base.CrawlID)
	assert.Equal(t, "Dev Platform", base.Title)
	assert.Equal(t, 2, base.TotalPages)
	assert.Equal(t, 37, base.TotalWords)
	assert.Equal(t, "technology", base.Industry)
	assert.Equal(t, "developers", base.Audience)
	assert.Equal(t, "technical", base.BrandVoice)
	assert.Equal(t, 1, base.OrphanPageCount)
	assert.Equal(t, 1, base.BrokenLinkCount)

	assert.Equal(t, map[string]int{"Organization": 1, "WebSite": 2, "FAQPage": 1}, base.SchemaTypes)

	require.Len(t, base.Pages, 2)
	assert.Equal(t, "https://dev.example/docs", base.Pages[1].URL)
}

func TestBuildFallbacks(t *testing.T) {
	result := &types.CrawlResult{
		ID:         "empty",
		URL:        "https://x.com/",
		TotalPages: 1,
		Pages: []types.CrawledPage{
			{URL: "https://x.com/", RawContent: "plain words without any strong signal here today", WordCount: 8},
		},
	}

	base := Build(result, nil)
	assert.Equal(t, "general", base.Industry)
	assert.Equal(t, "consumers", base.Audience)
	assert.Equal(t, "neutral", base.BrandVoice)
	assert.Zero(t, base.OrphanPageCount)
}

func TestTopKeywords(t *testing.T) {
	base := Build(techResult(), nil)
	require.NotEmpty(t, base.TopKeywords)
	// "api" appears most often across both pages.
	assert.Equal(t, "api", base.TopKeywords[0])
	for _, kw := range base.TopKeywords {
		assert.False(t, stopwords[kw])
		assert.Greater(t, len(kw), 2)
	}
}

func TestDuplicateDetection(t *testing.T) {
	result := techResult()
	dup := result.Pages[0]
	dup.URL = "https://dev.example/mirror"
	result.Pages = append(result.Pages, dup)
	result.TotalPages = 3

	base := Build(result, nil)
	require.Len(t, base.DuplicatePages, 1)
	assert.Equal(t, []string{"https://dev.example/", "https://dev.example/mirror"}, base.DuplicatePages[0])
}

func TestClassifyDeterministic(t *testing.T) {
	text := strings.ToLower("software patient")
	first := classify(text, industryKeywords, "general")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, classify(text, industryKeywords, "general"))
	}
}
