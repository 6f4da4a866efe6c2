package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/spider/internal/model"
)

const ruleWidth = 70

// SimpleWriter outputs human-readable text reports for the terminal.
type SimpleWriter struct {
	baseWriter

	// verbose adds the list of visited pages.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables the per-page listing.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.RunReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	w.writeArtifacts(&sb, report)
	w.writeProblems(&sb, "SKIPPED", skippedRows(report.Skipped))
	w.writeProblems(&sb, "FAILURES", failureRows(report.Failures))
	if w.verbose {
		w.writePages(&sb, report)
	}
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("                          SPIDER RUN REPORT\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Seed:        %s\n", report.Seed)
	fmt.Fprintf(sb, "Domain:      %s\n", orDash(report.Domain))
	fmt.Fprintf(sb, "Recursive:   %t\n", report.Recursive)
	fmt.Fprintf(sb, "Max level:   %s\n", depthText(report.MaxLevel))
	fmt.Fprintf(sb, "Output dir:  %s\n", report.OutputDir)
	fmt.Fprintf(sb, "Started:     %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Duration:    %s\n", report.Duration().Round(time.Millisecond))

	switch report.Status() {
	case "cancelled":
		sb.WriteString("Status:      CANCELLED (partial results)\n")
	case "error":
		fmt.Fprintf(sb, "Status:      ERROR - %s\n", report.ErrorMessage)
	default:
		sb.WriteString("Status:      Complete\n")
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.RunReport) {
	section(sb, "SUMMARY")
	fmt.Fprintf(sb, "  Pages visited:     %d\n", len(report.Pages))
	fmt.Fprintf(sb, "  Resources found:   %d\n", len(report.Resources))
	fmt.Fprintf(sb, "  Files saved:       %d\n", len(report.Artifacts))
	fmt.Fprintf(sb, "  Skipped:           %d\n", len(report.Skipped))
	fmt.Fprintf(sb, "  Failed fetches:    %d\n", len(report.Failures))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeArtifacts(sb *strings.Builder, report *model.RunReport) {
	if len(report.Artifacts) == 0 {
		return
	}
	section(sb, "SAVED FILES")
	for _, a := range report.Artifacts {
		fmt.Fprintf(sb, "  [+] %s (%s, %d bytes)\n", a.Filename, a.MIME, a.Size)
		fmt.Fprintf(sb, "      from %s\n", a.SourceURL)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeProblems(sb *strings.Builder, title string, rows [][2]string) {
	if len(rows) == 0 {
		return
	}
	section(sb, title)
	for _, r := range rows {
		fmt.Fprintf(sb, "  [-] %s\n", r[0])
		fmt.Fprintf(sb, "      %s\n", r[1])
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writePages(sb *strings.Builder, report *model.RunReport) {
	section(sb, "PAGES")
	if len(report.Pages) == 0 {
		sb.WriteString("  No pages fetched\n\n")
		return
	}
	for _, p := range report.Pages {
		fmt.Fprintf(sb, "  %02d %s (resources: %d, links: %d)\n", p.Level, p.URL, p.Resources, p.Children)
	}
	sb.WriteString("\n")
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

func skippedRows(skipped []model.SkippedDownload) [][2]string {
	rows := make([][2]string, len(skipped))
	for i, s := range skipped {
		rows[i] = [2]string{s.URL, s.Reason}
	}
	return rows
}

func failureRows(failures []model.FetchFailure) [][2]string {
	rows := make([][2]string, len(failures))
	for i, f := range failures {
		rows[i] = [2]string{f.URL, f.Reason}
	}
	return rows
}
