package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/nao1215/spider/internal/model"
)

// timeLayout is the minute precision used for file timestamps.
const timeLayout = "2006-01-02 15:04"

// MetadataTextWriter prints file metadata as one block per file:
//
//	------- photo.jpg -------
//	+ File size: 1024 bytes
//	+ Format: JPEG
//	+ Exif:
//	  - Make: Canon
type MetadataTextWriter struct {
	baseWriter
}

// NewMetadataTextWriter creates a MetadataTextWriter.
func NewMetadataTextWriter(output io.Writer) *MetadataTextWriter {
	return &MetadataTextWriter{baseWriter: newBaseWriter(output)}
}

// WriteMetadata implements MetadataWriter.
func (w *MetadataTextWriter) WriteMetadata(files []*model.FileMetadata) (int, error) {
	var sb strings.Builder
	for _, f := range files {
		writeMetadataBlock(&sb, f)
	}
	return w.output.Write([]byte(sb.String()))
}

func writeMetadataBlock(sb *strings.Builder, f *model.FileMetadata) {
	fmt.Fprintf(sb, "------- %s -------\n", f.Name)

	// Files rejected before sniffing have no stats to show.
	if f.MIME == "" {
		fmt.Fprintf(sb, "  Error: %s\n", f.Error)
		return
	}

	fmt.Fprintf(sb, "+ File size: %d bytes\n", f.Size)
	fmt.Fprintf(sb, "+ Creation time: %s\n", f.Created.Format(timeLayout))
	fmt.Fprintf(sb, "+ Modification time: %s\n", f.Modified.Format(timeLayout))
	for _, p := range f.Properties {
		fmt.Fprintf(sb, "+ %s: %s\n", p.Key, orDash(p.Value))
	}

	switch {
	case f.Error != "":
		fmt.Fprintf(sb, "  Error: %s\n", f.Error)
	case strings.HasPrefix(f.MIME, "image/"):
		if f.HasEXIF() {
			sb.WriteString("+ Exif:\n")
			for _, tag := range f.EXIF {
				fmt.Fprintf(sb, "  - %s: %s\n", tag.Key, tag.Value)
			}
		} else {
			sb.WriteString("+ NO Exif\n")
		}
	}
	sb.WriteString("\n")
}

// MetadataMarkdownWriter outputs file metadata as Markdown tables.
type MetadataMarkdownWriter struct {
	baseWriter
}

// NewMetadataMarkdownWriter creates a MetadataMarkdownWriter.
func NewMetadataMarkdownWriter(output io.Writer) *MetadataMarkdownWriter {
	return &MetadataMarkdownWriter{baseWriter: newBaseWriter(output)}
}

// WriteMetadata implements MetadataWriter.
func (w *MetadataMarkdownWriter) WriteMetadata(files []*model.FileMetadata) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("File Metadata")
	md.PlainText("")

	if len(files) == 0 {
		md.PlainText("No files given.")
		return len(md.String()), md.Build()
	}

	for _, f := range files {
		w.writeFile(md, f)
	}
	return len(md.String()), md.Build()
}

func (w *MetadataMarkdownWriter) writeFile(md *markdown.Markdown, f *model.FileMetadata) {
	md.H2(f.Name)
	md.PlainText("")

	if f.MIME == "" {
		md.Caution(f.Error)
		md.PlainText("")
		return
	}

	rows := [][]string{
		{"Path", markdown.Code(f.Path)},
		{"MIME", f.MIME},
		{"File size", strconv.FormatInt(f.Size, 10) + " bytes"},
		{"Creation time", f.Created.Format(timeLayout)},
		{"Modification time", f.Modified.Format(timeLayout)},
	}
	for _, p := range f.Properties {
		rows = append(rows, []string{p.Key, orDash(p.Value)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if f.Error != "" {
		md.Caution(f.Error)
		md.PlainText("")
		return
	}
	if !strings.HasPrefix(f.MIME, "image/") {
		return
	}

	md.H3("EXIF")
	md.PlainText("")
	if !f.HasEXIF() {
		md.PlainText("No EXIF data.")
		md.PlainText("")
		return
	}
	exif := make([][]string, len(f.EXIF))
	for i, tag := range f.EXIF {
		exif[i] = []string{tag.Key, tag.Value}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Tag", "Value"},
		Rows:   exif,
	})
	md.PlainText("")
}
