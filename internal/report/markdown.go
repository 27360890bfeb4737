package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/mailscrub/internal/session"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides type-safe tables, GitHub-flavored alerts and
// mermaid charts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Mailscrub Analysis")
	md.PlainText("")

	if summary.Source != "" {
		md.PlainTextf("Source: `%s`", summary.Source)
		md.PlainText("")
	}

	rows := make([][]string, 0, 7)
	for _, row := range countRows(summary.Counts) {
		rows = append(rows, []string{titleCase(row.label), strconv.Itoa(row.value)})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(summary.Total) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Category", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if summary.Total > 0 {
		w.writePieChart(md, summary)
	}

	w.writeAlert(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writePieChart writes a mermaid pie chart of the non-zero counts.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Element Distribution"),
		piechart.WithShowData(true),
	)

	for _, row := range countRows(summary.Counts) {
		if row.value > 0 {
			chart.LabelAndIntValue(titleCase(row.label), uint64(row.value))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert about tracking found in the document.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *Summary) {
	c := summary.Counts
	switch {
	case c.TrackingPixels > 0:
		md.Warningf("%d tracking pixel(s) detected. Configure an opens target or enable hide-images.", c.TrackingPixels)
	case c.ClickLinks > 0:
		md.Importantf("%d click-tracked link(s) detected.", c.ClickLinks)
	case summary.Total > 0:
		md.Note("No tracking pixels or click links detected.")
	default:
		md.Tip("The document contains no links, images or comments.")
	}
	md.PlainText("")
}

// WriteHistory outputs the runs as a Markdown table.
func (w *MarkdownWriter) WriteHistory(sessionName string, runs []session.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Run History")
	md.PlainText("")
	md.PlainTextf("Session: `%s`", sessionName)
	md.PlainText("")

	if len(runs) == 0 {
		md.PlainText("No runs recorded.")
		md.PlainText("")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(runs))
	for i, run := range runs {
		cleanup := strings.Join(run.Flags.Enabled(), ", ")
		if cleanup == "" {
			cleanup = "-"
		}
		rows[i] = []string{
			"`" + run.ID + "`",
			run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			"`" + shortDigest(run.InputDigest) + "`",
			"`" + shortDigest(run.OutputDigest) + "`",
			strconv.Itoa(run.Counts.Total()),
			cleanup,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Run", "Date", "Input", "Output", "Elements", "Cleanup"},
		Rows:   rows,
	})
	md.PlainText("")
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by mailscrub*")
}
