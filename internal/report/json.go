package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/spider/internal/model"
)

// JSONWriter outputs reports in JSON format for tool integration.
type JSONWriter struct {
	baseWriter

	// version is written next to the report when set.
	version string

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string.
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion wraps the report in a JSONReport carrying version.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JSONReport wraps a run report with the version that produced it.
type JSONReport struct {
	// Version is the spider version.
	Version string `json:"version"`

	// Status is the one-word outcome of the run.
	Status string `json:"status"`

	// DurationMS is the run duration in milliseconds.
	DurationMS int64 `json:"duration_ms"`

	// Report is the full run report.
	Report *model.RunReport `json:"report"`
}

// Write outputs the report in JSON format.
// Without WithVersion the bare report is written.
func (w *JSONWriter) Write(report *model.RunReport) (int, error) {
	if report.Error != nil && report.ErrorMessage == "" {
		report.ErrorMessage = report.Error.Error()
	}
	if w.version == "" {
		return w.writeJSON(report)
	}
	return w.writeJSON(&JSONReport{
		Version:    w.version,
		Status:     report.Status(),
		DurationMS: report.Duration().Milliseconds(),
		Report:     report,
	})
}

// WriteMetadata outputs file metadata as a JSON array.
func (w *JSONWriter) WriteMetadata(files []*model.FileMetadata) (int, error) {
	if files == nil {
		files = make([]*model.FileMetadata, 0)
	}
	return w.writeJSON(files)
}

// writeJSON marshals v and writes it with a trailing newline.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
