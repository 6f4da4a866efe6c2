package metadata

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/spider/internal/model"
)

// corePropertiesPath is the OOXML part holding the core properties.
const corePropertiesPath = "docProps/core.xml"

// coreProperties mirrors docProps/core.xml. Elements are matched by local
// name, so the cp, dc and dcterms prefixes do not matter.
type coreProperties struct {
	Creator        string `xml:"creator"`
	Category       string `xml:"category"`
	Description    string `xml:"description"`
	ContentStatus  string `xml:"contentStatus"`
	Created        string `xml:"created"`
	Identifier     string `xml:"identifier"`
	Keywords       string `xml:"keywords"`
	Language       string `xml:"language"`
	LastModifiedBy string `xml:"lastModifiedBy"`
	LastPrinted    string `xml:"lastPrinted"`
	Modified       string `xml:"modified"`
	Revision       string `xml:"revision"`
	Subject        string `xml:"subject"`
	Title          string `xml:"title"`
	Version        string `xml:"version"`
}

var title = cases.Title(language.English)

// label capitalizes the first word of s: "last modified by" becomes
// "Last modified by".
func label(s string) string {
	first, rest, found := strings.Cut(s, " ")
	if !found {
		return title.String(first)
	}
	return title.String(first) + " " + rest
}

// readDocx records the core properties of a DOCX package. A package
// without docProps/core.xml lists every property empty.
func readDocx(md *model.FileMetadata, data []byte) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBrokenDocument, err)
	}

	var props coreProperties
	f, err := zr.Open(corePropertiesPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("%w: %w", ErrBrokenDocument, err)
	default:
		defer f.Close()
		if err := xml.NewDecoder(f).Decode(&props); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrBrokenDocument, corePropertiesPath, err)
		}
	}

	for _, p := range []struct {
		key   string
		value string
	}{
		{"author", props.Creator},
		{"category", props.Category},
		{"comments", props.Description},
		{"content status", props.ContentStatus},
		{"created", props.Created},
		{"identifier", props.Identifier},
		{"keywords", props.Keywords},
		{"language", props.Language},
		{"last modified by", props.LastModifiedBy},
		{"last printed", props.LastPrinted},
		{"modified", props.Modified},
		{"revision", props.Revision},
		{"subject", props.Subject},
		{"title", props.Title},
		{"version", props.Version},
	} {
		md.AddProperty(label(p.key), strings.TrimSpace(p.value))
	}
	return nil
}
