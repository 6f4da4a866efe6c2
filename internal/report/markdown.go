package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/spider/internal/model"
)

// MarkdownWriter outputs reports in Markdown format for sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeArtifacts(md, report)
	w.writeProblems(md, "Skipped Resources", skippedRows(report.Skipped))
	w.writeProblems(md, "Failed Fetches", failureRows(report.Failures))
	w.writePages(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RunReport) {
	md.H1("Spider Run Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed", markdown.Code(report.Seed)},
			{"Domain", orDash(report.Domain)},
			{"Recursive", strconv.FormatBool(report.Recursive)},
			{"Max Level", depthText(report.MaxLevel)},
			{"Output Directory", markdown.Code(report.OutputDir)},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", report.Duration().Round(time.Millisecond).String()},
			{"Status", w.statusText(report)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) statusText(report *model.RunReport) string {
	switch report.Status() {
	case "cancelled":
		return "⚠️ Cancelled (partial results)"
	case "error":
		return "❌ Error - " + report.ErrorMessage
	default:
		return "✅ Complete"
	}
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Item", "Count"},
		Rows: [][]string{
			{"Pages visited", strconv.Itoa(len(report.Pages))},
			{"Resources found", strconv.Itoa(len(report.Resources))},
			{"Files saved", strconv.Itoa(len(report.Artifacts))},
			{"Skipped", strconv.Itoa(len(report.Skipped))},
			{"Failed fetches", strconv.Itoa(len(report.Failures))},
		},
	})
	md.PlainText("")

	if len(report.Artifacts) > 0 {
		w.writePieChart(md, report.Artifacts)
	}

	switch {
	case report.Cancelled:
		md.Warning("The run was interrupted; the results are partial.")
	case len(report.Pages) == 0:
		md.Caution("The seed could not be fetched; nothing was crawled.")
	case len(report.Artifacts) == 0:
		md.Note("No supported image or document was found.")
	default:
		md.Tip(strconv.Itoa(len(report.Artifacts)) + " file(s) saved to " + markdown.Code(report.OutputDir) + ".")
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of the saved file formats.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, artifacts []model.Artifact) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Saved Files by Format"),
		piechart.WithShowData(true),
	)

	counts := make(map[string]uint64)
	order := make([]string, 0)
	for _, a := range artifacts {
		if counts[a.Extension] == 0 {
			order = append(order, a.Extension)
		}
		counts[a.Extension]++
	}
	for _, ext := range order {
		chart.LabelAndIntValue(ext, counts[ext])
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeArtifacts(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Saved Files")
	md.PlainText("")

	if len(report.Artifacts) == 0 {
		md.PlainText("No files saved.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Artifacts))
	for i, a := range report.Artifacts {
		rows[i] = []string{
			markdown.Code(a.Filename),
			a.MIME,
			strconv.FormatInt(a.Size, 10),
			truncateString(a.SourceURL, 60),
			truncateString(a.Digest, 16),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"File", "MIME", "Size", "Source", "SHA3-256"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeProblems(md *markdown.Markdown, title string, problems [][2]string) {
	if len(problems) == 0 {
		return
	}
	md.H2(title)
	md.PlainText("")

	rows := make([][]string, len(problems))
	for i, p := range problems {
		rows[i] = []string{truncateString(p[0], 60), p[1]}
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Reason"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writePages(md *markdown.Markdown, report *model.RunReport) {
	if len(report.Pages) == 0 {
		return
	}

	rows := make([][]string, len(report.Pages))
	for i, p := range report.Pages {
		rows[i] = []string{
			strconv.Itoa(p.Level),
			p.URL,
			strconv.Itoa(p.Resources),
			strconv.Itoa(p.Children),
		}
	}

	table := markdown.NewMarkdown(io.Discard)
	table.Table(markdown.TableSet{
		Header: []string{"Level", "URL", "Resources", "Links"},
		Rows:   rows,
	})
	md.H2("Pages")
	md.PlainText("")
	md.Details(strconv.Itoa(len(report.Pages))+" page(s) visited", "\n"+table.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by [spider](https://github.com/nao1215/spider)*")
}

// truncateString truncates a string to maxLen bytes with an ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
