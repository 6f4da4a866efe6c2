package report

import (
	"io"
	"strconv"

	"github.com/nao1215/spider/internal/model"
)

// Writer writes a run report to its destination.
type Writer interface {
	// Write outputs the report and returns the number of bytes written.
	Write(report *model.RunReport) (int, error)
}

// MetadataWriter writes the metadata of a batch of files.
type MetadataWriter interface {
	// WriteMetadata outputs the files in order and returns the number of
	// bytes written.
	WriteMetadata(files []*model.FileMetadata) (int, error)
}

// MultiWriter writes a run report to several Writers, for example the
// terminal and a report file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// It returns the total bytes written and stops on the first error.
func (m *MultiWriter) Write(report *model.RunReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// depthText describes the effective maximum depth.
func depthText(maxLevel int) string {
	if maxLevel == 0 {
		return "unlimited"
	}
	return strconv.Itoa(maxLevel)
}

// orDash returns s, or "-" when s is empty.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
