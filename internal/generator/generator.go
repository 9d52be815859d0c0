// Package generator renders markdown documents with YAML front matter from
// a crawl's knowledge base.
package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/sitescout/sitescout/internal/extractor"
	"github.com/sitescout/sitescout/internal/knowledge"
)

// FrontMatter is the metadata block prepended to generated documents.
type FrontMatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description,omitempty"`
	Source      string   `yaml:"source"`
	Industry    string   `yaml:"industry,omitempty"`
	Audience    string   `yaml:"audience,omitempty"`
	Keywords    []string `yaml:"keywords,omitempty"`
}

var summaryTemplate = template.Must(template.New("summary").Parse(`# {{.Title}}

{{if .Description}}{{.Description}}

{{end}}## Site profile

- Pages crawled: {{.TotalPages}}
- Total words: {{.TotalWords}}
- Industry: {{.Industry}}
- Audience: {{.Audience}}
- Brand voice: {{.BrandVoice}}

## Link health

- Orphan pages: {{.OrphanPageCount}}
- Broken links: {{.BrokenLinkCount}}
{{if .SchemaTypes}}
## Structured data

{{range $type, $count := .SchemaTypes}}- {{$type}}: {{$count}} page(s)
{{end}}{{end}}
## Pages

{{range .Pages}}- [{{if .Title}}{{.Title}}{{else}}{{.URL}}{{end}}]({{.URL}}): {{.WordCount}} words
{{end}}`))

// RenderSummary produces the knowledge-base summary document, front matter
// included.
func RenderSummary(base *knowledge.Base) (string, error) {
	fm := FrontMatter{
		Title:       base.Title,
		Description: base.Description,
		Source:      base.URL,
		Industry:    base.Industry,
		Audience:    base.Audience,
		Keywords:    base.TopKeywords,
	}
	if fm.Title == "" {
		fm.Title = base.URL
	}

	meta, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("failed to marshal front matter: %w", err)
	}

	var body strings.Builder
	if err := summaryTemplate.Execute(&body, base); err != nil {
		return "", fmt.Errorf("failed to render summary: %w", err)
	}

	return "---\n" + string(meta) + "---\n\n" + body.String(), nil
}

// WriteSummary renders the summary and writes it under outputDir, named
// after the site title.
func WriteSummary(base *knowledge.Base, outputDir string) (string, error) {
	doc, err := RenderSummary(base)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	slug := extractor.Slugify(base.Title)
	if slug == "" {
		slug = "site-summary"
	}
	path := filepath.Join(outputDir, slug+".md")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return "", fmt.Errorf("failed to write summary: %w", err)
	}
	return path, nil
}
