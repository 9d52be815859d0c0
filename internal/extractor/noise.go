package extractor

import (
	"github.com/PuerkitoBio/goquery"
)

// noiseTags are structural elements that never carry main content.
var noiseTags = []string{
	"script",
	"style",
	"noscript",
	"iframe",
	"nav",
	"header",
	"footer",
	"aside",
}

// noiseSelectors match class/id conventions of chrome, ads and overlays.
var noiseSelectors = []string{
	"[class*='nav']",
	"[class*='menu']",
	"[class*='sidebar']",
	"[class*='advert']",
	"[class*='banner']",
	"[class*='cookie']",
	"[class*='popup']",
	"[class*='modal']",
	"[class*='breadcrumb']",
	"[id*='sidebar']",
	"[id*='cookie']",
	"[class*='-ad-']",
	"[class^='ad-']",
	"[id^='ad-']",
}

// clean removes noise elements from doc in place. The document is owned by
// a single extraction, so mutating it is safe; all subsequent extraction
// operates on the cleaned tree.
func clean(doc *goquery.Document) {
	for _, tag := range noiseTags {
		doc.Find(tag).Remove()
	}
	for _, sel := range noiseSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			s.Remove()
		})
	}
}
