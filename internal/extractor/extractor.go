package extractor

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/cespare/xxhash/v2"

	"github.com/sitescout/sitescout/internal/types"
	"github.com/sitescout/sitescout/internal/urlutil"
)

// rawContentLimit caps the plain-text content stored per page.
const rawContentLimit = 10000

// Heading is one h1-h6 element with a slug id.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}

// Table holds header and body cells of one <table>.
type Table struct {
	Headers []string   `json:"headers,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`
}

// Image is one <img> with a resolved source URL.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// Metadata collects head-level page metadata. Fields are empty when the
// corresponding tag is absent.
type Metadata struct {
	Description   string   `json:"description,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
	Author        string   `json:"author,omitempty"`
	Canonical     string   `json:"canonical,omitempty"`
	OGTitle       string   `json:"og_title,omitempty"`
	OGDescription string   `json:"og_description,omitempty"`
	OGImage       string   `json:"og_image,omitempty"`
	TwitterCard   string   `json:"twitter_card,omitempty"`
	Robots        string   `json:"robots,omitempty"`
}

// Content is the structured output of extracting one HTML document.
type Content struct {
	Title       string                `json:"title"`
	Headings    []Heading             `json:"headings,omitempty"`
	Paragraphs  []string              `json:"paragraphs,omitempty"`
	Lists       [][]string            `json:"lists,omitempty"`
	Tables      []Table               `json:"tables,omitempty"`
	Images      []Image               `json:"images,omitempty"`
	CodeBlocks  []string              `json:"code_blocks,omitempty"`
	Links       []types.ExtractedLink `json:"links,omitempty"`
	Metadata    Metadata              `json:"metadata"`
	SchemaTypes []string              `json:"schema_types,omitempty"`

	// Derived from the cleaned tree.
	CleanHTML   string `json:"-"`
	Text        string `json:"-"`
	WordCount   int    `json:"-"`
	ContentHash string `json:"-"`
}

// Extractor parses HTML documents and classifies their links against the
// crawl seed's hostname.
type Extractor struct {
	seedHost string
}

// New creates an extractor for a crawl rooted at seedURL.
func New(seedURL string) (*Extractor, error) {
	u, err := url.Parse(seedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL: %w", err)
	}
	return &Extractor{seedHost: u.Hostname()}, nil
}

// Extract cleans htmlContent and pulls out structured content. Relative
// hrefs resolve against pageURL; hrefs that cannot be resolved are skipped.
func (e *Extractor) Extract(htmlContent, pageURL string) (*Content, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	// JSON-LD lives in <script> blocks, which clean() removes.
	schemaTypes := extractSchemaTypes(doc)

	clean(doc)

	content := &Content{
		Title:       e.extractTitle(doc),
		Headings:    extractHeadings(doc),
		Paragraphs:  extractParagraphs(doc),
		Lists:       extractLists(doc),
		Tables:      extractTables(doc),
		Images:      extractImages(doc, pageURL),
		CodeBlocks:  extractCodeBlocks(doc),
		Links:       e.extractLinks(doc, pageURL),
		Metadata:    extractMetadata(doc),
		SchemaTypes: schemaTypes,
	}

	if cleanHTML, err := doc.Html(); err == nil {
		content.CleanHTML = cleanHTML
	}

	text := flattenText(content.CleanHTML)
	content.WordCount = len(strings.Fields(text))
	if len(text) > rawContentLimit {
		// Back the cut up to a rune boundary so the stored text stays
		// valid UTF-8.
		cut := rawContentLimit
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	content.Text = text
	content.ContentHash = fmt.Sprintf("%016x", xxhash.Sum64String(text))

	return content, nil
}

// extractTitle resolves the page title: <title> text, then the first h1,
// then og:title, then a literal fallback.
func (e *Extractor) extractTitle(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if og = strings.TrimSpace(og); og != "" {
			return og
		}
	}
	return "Untitled"
}

func extractHeadings(doc *goquery.Document) []Heading {
	headings := make([]Heading, 0)
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		level := int(s.Get(0).Data[1] - '0')
		id := Slugify(text)
		if id == "" {
			id = fmt.Sprintf("heading-%d", len(headings)+1)
		}
		headings = append(headings, Heading{Level: level, Text: text, ID: id})
	})
	return headings
}

func extractParagraphs(doc *goquery.Document) []string {
	paragraphs := make([]string, 0)
	doc.Find("p").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		// Very short paragraphs are navigation crumbs and button labels.
		if len(text) >= 20 {
			paragraphs = append(paragraphs, text)
		}
	})
	return paragraphs
}

func extractLists(doc *goquery.Document) [][]string {
	lists := make([][]string, 0)
	doc.Find("ul, ol").Each(func(i int, s *goquery.Selection) {
		items := make([]string, 0)
		s.Find("li").Each(func(j int, li *goquery.Selection) {
			if text := strings.TrimSpace(li.Text()); text != "" {
				items = append(items, text)
			}
		})
		if len(items) > 0 {
			lists = append(lists, items)
		}
	})
	return lists
}

func extractTables(doc *goquery.Document) []Table {
	tables := make([]Table, 0)
	doc.Find("table").Each(func(i int, s *goquery.Selection) {
		var table Table
		s.Find("th").Each(func(j int, th *goquery.Selection) {
			table.Headers = append(table.Headers, strings.TrimSpace(th.Text()))
		})
		s.Find("tr").Each(func(j int, tr *goquery.Selection) {
			row := make([]string, 0)
			tr.Find("td").Each(func(k int, td *goquery.Selection) {
				row = append(row, strings.TrimSpace(td.Text()))
			})
			if len(row) > 0 {
				table.Rows = append(table.Rows, row)
			}
		})
		if len(table.Headers) > 0 || len(table.Rows) > 0 {
			tables = append(tables, table)
		}
	})
	return tables
}

func extractImages(doc *goquery.Document, pageURL string) []Image {
	images := make([]Image, 0)
	doc.Find("img[src]").Each(func(i int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		resolved, ok := urlutil.Resolve(src, pageURL)
		if !ok {
			return
		}
		alt, _ := s.Attr("alt")
		images = append(images, Image{Src: resolved, Alt: strings.TrimSpace(alt)})
	})
	return images
}

func extractCodeBlocks(doc *goquery.Document) []string {
	blocks := make([]string, 0)
	doc.Find("pre").Each(func(i int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})
	return blocks
}

// extractLinks resolves every <a href> against pageURL and classifies it
// against the seed hostname. Unresolvable hrefs are skipped, not counted.
func (e *Extractor) extractLinks(doc *goquery.Document, pageURL string) []types.ExtractedLink {
	links := make([]types.ExtractedLink, 0)
	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		resolved, ok := urlutil.Resolve(href, pageURL)
		if !ok {
			return
		}
		internal := false
		if u, err := url.Parse(resolved); err == nil {
			internal = u.Hostname() == e.seedHost
		}
		links = append(links, types.ExtractedLink{
			Href:       resolved,
			Text:       strings.TrimSpace(s.Text()),
			IsInternal: internal,
			IsExternal: !internal,
		})
	})
	return links
}

func extractMetadata(doc *goquery.Document) Metadata {
	var md Metadata

	metaContent := func(selector string) string {
		content, _ := doc.Find(selector).Attr("content")
		return strings.TrimSpace(content)
	}

	md.Description = metaContent(`meta[name="description"]`)
	md.Author = metaContent(`meta[name="author"]`)
	md.Robots = metaContent(`meta[name="robots"]`)
	md.TwitterCard = metaContent(`meta[name="twitter:card"]`)
	md.OGTitle = metaContent(`meta[property="og:title"]`)
	md.OGDescription = metaContent(`meta[property="og:description"]`)
	md.OGImage = metaContent(`meta[property="og:image"]`)

	if href, ok := doc.Find(`link[rel="canonical"]`).Attr("href"); ok {
		md.Canonical = strings.TrimSpace(href)
	}

	if keywords := metaContent(`meta[name="keywords"]`); keywords != "" {
		for _, kw := range strings.Split(keywords, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				md.Keywords = append(md.Keywords, kw)
			}
		}
	}

	return md
}

// Slugify lowercases text and collapses non-alphanumeric runs to single
// hyphens, stripping any leading or trailing hyphen.
func Slugify(text string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
