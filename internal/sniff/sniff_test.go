package sniff

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"
)

// docxBytes builds a minimal OOXML word document.
func docxBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range []string{"word/document.xml", "[Content_Types].xml", "docProps/core.xml"} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to add %s: %v", name, err)
		}
		if _, err := w.Write([]byte("<xml/>")); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestFileTypeSniffer(t *testing.T) {
	t.Parallel()

	s := NewFileTypeSniffer()

	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{name: "jpeg", data: []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}, want: JPEG},
		{name: "png", data: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), want: PNG},
		{name: "gif", data: []byte("GIF89a\x01\x00\x01\x00"), want: GIF},
		{name: "bmp", data: []byte("BM\x3a\x00\x00\x00\x00\x00"), want: BMP},
		{name: "pdf", data: []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n"), want: PDF},
		{name: "docx", data: docxBytes(t), want: DOCX},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := s.Sniff(tt.data)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestFileTypeSnifferRejects(t *testing.T) {
	t.Parallel()

	s := NewFileTypeSniffer()

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{name: "empty", data: nil, wantErr: ErrUnknownFormat},
		{name: "html", data: []byte("<html><body>not an image</body></html>"), wantErr: ErrUnknownFormat},
		{name: "gzip", data: []byte{0x1f, 0x8b, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00}, wantErr: ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := s.Sniff(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFormatIsImage(t *testing.T) {
	t.Parallel()

	for _, f := range []Format{JPEG, PNG, GIF, BMP} {
		if !f.IsImage() {
			t.Errorf("expected %s to be an image", f.Name)
		}
	}
	for _, f := range []Format{PDF, DOCX} {
		if f.IsImage() {
			t.Errorf("expected %s not to be an image", f.Name)
		}
	}
}

func TestMIME(t *testing.T) {
	t.Parallel()

	if got := MIME([]byte{0x1f, 0x8b, 0x08, 0x00}); got != "application/gzip" {
		t.Errorf("expected application/gzip, got %q", got)
	}
	if got := MIME([]byte("plain text")); got != "" {
		t.Errorf("expected empty MIME, got %q", got)
	}
}
