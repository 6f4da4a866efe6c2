package metadata

import (
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/nao1215/spider/internal/model"
)

// pdfFields are the information dictionary entries shown for a PDF, in
// display order.
var pdfFields = []struct {
	label   string
	pattern *regexp.Regexp
}{
	{"Author", infoPattern("Author")},
	{"Creator", infoPattern("Creator")},
	{"Producer", infoPattern("Producer")},
	{"Subject", infoPattern("Subject")},
	{"Title", infoPattern("Title")},
}

// pdfPage matches page objects but not the /Pages tree nodes.
var pdfPage = regexp.MustCompile(`/Type\s*/Page\b`)

// infoPattern matches a literal or a hex string value of key.
func infoPattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`/` + key + `\s*\(((?:\\.|[^\\)])*)\)|/` + key + `\s*<([0-9A-Fa-f\s]*)>`)
}

// readPDF records the page count and the information dictionary. The PDF
// object graph is not parsed; entries are found by scanning the raw bytes,
// so values inside compressed object streams are reported as empty.
func readPDF(md *model.FileMetadata, data []byte) {
	content := string(data)

	md.AddProperty("Pages", strconv.Itoa(len(pdfPage.FindAllStringIndex(content, -1))))
	for _, f := range pdfFields {
		md.AddProperty(f.label, pdfInfoValue(f.pattern, content))
	}
}

func pdfInfoValue(pattern *regexp.Regexp, content string) string {
	m := pattern.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	if m[2] != "" {
		return decodePDFHex(m[2])
	}
	return decodePDFLiteral(m[1])
}

var pdfEscapes = strings.NewReplacer(
	`\n`, "\n",
	`\r`, "\r",
	`\t`, "\t",
	`\(`, "(",
	`\)`, ")",
	`\\`, `\`,
)

// decodePDFLiteral decodes a literal string body.
func decodePDFLiteral(s string) string {
	return strings.TrimSpace(decodeText([]byte(pdfEscapes.Replace(s))))
}

// decodePDFHex decodes a hex string body. An odd trailing digit is padded
// with zero.
func decodePDFHex(s string) string {
	s = strings.Join(strings.Fields(s), "")
	if len(s)%2 == 1 {
		s += "0"
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(decodeText(b))
}

// decodeText turns a PDF text string into UTF-8. Strings starting with a
// UTF-16 byte order mark are decoded as UTF-16; everything else is kept as
// is.
func decodeText(b []byte) string {
	if len(b) >= 2 && (b[0] == 0xFE && b[1] == 0xFF || b[0] == 0xFF && b[1] == 0xFE) {
		out, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(b)
		if err == nil {
			return string(out)
		}
	}
	return string(b)
}
