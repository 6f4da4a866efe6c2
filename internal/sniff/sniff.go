// Package sniff classifies byte buffers by their magic bytes.
//
// Declared content types and URL extensions are not trusted; a downloaded
// body is kept only when its signature matches one of the supported
// formats.
package sniff

import (
	"errors"
	"fmt"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	"github.com/h2non/filetype/types"
)

var (
	// ErrUnknownFormat is returned when no known signature matches.
	ErrUnknownFormat = errors.New("unknown file format")

	// ErrUnsupportedFormat is returned when the signature is known but the
	// format is not one of the supported ones.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Format is a supported file format.
type Format struct {
	// Name is a short display name, e.g. "JPEG".
	Name string
	// MIME is the canonical MIME type.
	MIME string
	// Extension is the canonical extension without a dot.
	Extension string
}

// IsImage reports whether f is one of the image formats.
func (f Format) IsImage() bool {
	switch f {
	case JPEG, PNG, GIF, BMP:
		return true
	default:
		return false
	}
}

// The supported formats.
var (
	JPEG = Format{Name: "JPEG", MIME: "image/jpeg", Extension: "jpg"}
	PNG  = Format{Name: "PNG", MIME: "image/png", Extension: "png"}
	GIF  = Format{Name: "GIF", MIME: "image/gif", Extension: "gif"}
	BMP  = Format{Name: "BMP", MIME: "image/bmp", Extension: "bmp"}
	DOCX = Format{
		Name:      "DOCX",
		MIME:      "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Extension: "docx",
	}
	PDF = Format{Name: "PDF", MIME: "application/pdf", Extension: "pdf"}
)

// Sniffer classifies a buffer.
type Sniffer interface {
	// Sniff returns the format of b, or ErrUnknownFormat or
	// ErrUnsupportedFormat.
	Sniff(b []byte) (Format, error)
}

// supported pairs every format with its matcher. DOCX is checked before
// anything zip based could claim the buffer.
var supported = []struct {
	kind   types.Type
	format Format
}{
	{matchers.TypeJpeg, JPEG},
	{matchers.TypePng, PNG},
	{matchers.TypeGif, GIF},
	{matchers.TypeBmp, BMP},
	{matchers.TypeDocx, DOCX},
	{matchers.TypePdf, PDF},
}

// FileTypeSniffer is the Sniffer backed by github.com/h2non/filetype.
type FileTypeSniffer struct{}

// NewFileTypeSniffer returns the default Sniffer.
func NewFileTypeSniffer() FileTypeSniffer {
	return FileTypeSniffer{}
}

// Sniff implements Sniffer.
func (FileTypeSniffer) Sniff(b []byte) (Format, error) {
	if len(b) == 0 {
		return Format{}, ErrUnknownFormat
	}

	for _, s := range supported {
		if filetype.IsType(b, s.kind) {
			return s.format, nil
		}
	}

	kind, err := filetype.Match(b)
	if err != nil || kind == filetype.Unknown {
		return Format{}, ErrUnknownFormat
	}
	return Format{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind.MIME.Value)
}

// MIME returns the MIME type of b as far as any known signature goes,
// supported or not. It returns "" when nothing matches.
func MIME(b []byte) string {
	kind, err := filetype.Match(b)
	if err != nil || kind == filetype.Unknown {
		return ""
	}
	return kind.MIME.Value
}
