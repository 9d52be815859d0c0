package export

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sitescout/sitescout/internal/types"
)

// SitemapConfig holds XML sitemap export options.
type SitemapConfig struct {
	OutputFile        string
	IncludeLastmod    bool
	IncludeChangefreq bool
	DefaultPriority   float64
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	XMLNS   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc        string  `xml:"loc"`
	Lastmod    string  `xml:"lastmod,omitempty"`
	Changefreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority,omitempty"`
}

// ExportSitemap writes an XML sitemap of the crawl's successfully fetched
// pages, stamped with the crawl time.
func ExportSitemap(result *types.CrawlResult, config SitemapConfig) (int, error) {
	set := urlSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
	}

	for _, page := range result.Pages {
		if page.StatusCode != http.StatusOK {
			continue
		}

		entry := urlEntry{
			Loc:      page.URL,
			Priority: config.DefaultPriority,
		}
		if config.IncludeLastmod {
			entry.Lastmod = result.CrawledAt.Format(time.RFC3339)
		}
		if config.IncludeChangefreq {
			entry.Changefreq = "weekly"
		}
		set.URLs = append(set.URLs, entry)
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return 0, fmt.Errorf("failed to create sitemap file: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(xml.Header); err != nil {
		return 0, fmt.Errorf("failed to write sitemap: %w", err)
	}
	enc := xml.NewEncoder(file)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return 0, fmt.Errorf("failed to encode sitemap: %w", err)
	}

	return len(set.URLs), nil
}
