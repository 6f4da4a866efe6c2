package crawler

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed HTML page.
type Document interface {
	// Elements returns, in document order, the value of attr for every
	// element named tag that carries attr.
	Elements(tag, attr string) []string
}

// DocumentParser turns page text into a Document. It never fails;
// unparsable input yields a Document without elements.
type DocumentParser func(text string) Document

// ParseHTML parses text with golang.org/x/net/html.
func ParseHTML(text string) Document {
	root, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return htmlDocument{}
	}
	return htmlDocument{root: root}
}

type htmlDocument struct {
	root *html.Node
}

func (d htmlDocument) Elements(tag, attr string) []string {
	if d.root == nil {
		return nil
	}

	tag = strings.ToLower(tag)
	attr = strings.ToLower(attr)
	want := atom.Lookup([]byte(tag))

	var values []string
	for n := range d.root.Descendants() {
		if n.Type != html.ElementNode {
			continue
		}
		if want != 0 && n.DataAtom != want {
			continue
		}
		if want == 0 && n.Data != tag {
			continue
		}
		if v, ok := getAttr(n, attr); ok {
			values = append(values, v)
		}
	}
	return values
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
