package crawler

import (
	"net/url"
	"strings"

	"github.com/nao1215/spider/internal/config"
)

// Documents are collected from anchors by their path suffix. The match is
// case-sensitive.
var documentSuffixes = []string{".pdf", ".docx"}

// Links are the classified links of one page.
type Links struct {
	// Resources are image sources and document anchors, in document order.
	// Duplicates are kept.
	Resources []string

	// Children are same-host pages to crawl next.
	Children []Child
}

// Child is a page to visit and the level to visit it at.
type Child struct {
	URL   string
	Level int
}

// Extractor classifies the links of a page for one crawl.
type Extractor struct {
	domain   string
	maxLevel int
}

// NewExtractor creates an Extractor for cfg.
func NewExtractor(cfg *config.CrawlConfig) *Extractor {
	return &Extractor{domain: cfg.Domain(), maxLevel: cfg.MaxLevel()}
}

// Extract resolves the links of doc against baseURL, the URL of the page at
// level.
//
// Every <img src> resolving to an http(s) URL with a host is a resource.
// Anchors are only looked at while level is below the maximum level (or the
// crawl is unlimited): an http(s) anchor whose path ends in .pdf or .docx is
// a resource whatever its host, one whose host equals the crawl domain is a
// child at level+1 (0 when unlimited), anything else is dropped.
func (e *Extractor) Extract(doc Document, baseURL string, level int) Links {
	var links Links

	base, err := url.Parse(baseURL)
	if err != nil {
		return links
	}

	for _, src := range doc.Elements("img", "src") {
		u, ok := resolve(base, src)
		if !ok || u.Host == "" {
			continue
		}
		links.Resources = append(links.Resources, u.String())
	}

	if e.maxLevel != 0 && level >= e.maxLevel {
		return links
	}

	nextLevel := level + 1
	if e.maxLevel == 0 {
		nextLevel = 0
	}

	for _, href := range doc.Elements("a", "href") {
		u, ok := resolve(base, href)
		if !ok {
			continue
		}
		switch {
		case isDocument(u.Path):
			links.Resources = append(links.Resources, u.String())
		case u.Host == e.domain:
			links.Children = append(links.Children, Child{URL: u.String(), Level: nextLevel})
		}
	}

	return links
}

// resolve resolves ref against base and keeps it only when the result is an
// http or https URL.
func resolve(base *url.URL, ref string) (*url.URL, bool) {
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return nil, false
	}
	u := base.ResolveReference(r)
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	return u, true
}

func isDocument(path string) bool {
	for _, suffix := range documentSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}
