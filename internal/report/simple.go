package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/mailscrub/internal/session"
)

// SimpleWriter outputs human-readable text reports.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because it works in all terminals and is easy to pipe to
// files or other tools.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether zero counts are listed.
	showEmpty bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to list zero counts.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
// Zero counts are listed unless WithShowEmpty(false) is given.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  true,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the summary in human-readable format.
func (w *SimpleWriter) Write(summary *Summary) (int, error) {
	var sb strings.Builder

	writeBanner(&sb, "MAILSCRUB ANALYSIS")

	if summary.Source != "" {
		sb.WriteString(fmt.Sprintf("Source: %s\n\n", summary.Source))
	}

	for _, row := range countRows(summary.Counts) {
		if row.value == 0 && !w.showEmpty {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %-20s %d\n", upperCase(row.label)+":", row.value))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  %-20s %d\n", "TOTAL:", summary.Total))
	sb.WriteString("\n")

	if summary.Counts.TrackingPixels > 0 {
		sb.WriteString(fmt.Sprintf("  [!] %d tracking pixel(s) found\n\n", summary.Counts.TrackingPixels))
	}

	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

// WriteHistory outputs one line per run, newest first.
func (w *SimpleWriter) WriteHistory(sessionName string, runs []session.Run) (int, error) {
	var sb strings.Builder

	writeBanner(&sb, "MAILSCRUB HISTORY")
	sb.WriteString(fmt.Sprintf("Session: %s\n\n", sessionName))

	if len(runs) == 0 {
		sb.WriteString("  No runs recorded\n\n")
		return w.output.Write([]byte(sb.String()))
	}

	for _, run := range runs {
		cleanup := strings.Join(run.Flags.Enabled(), ",")
		if cleanup == "" {
			cleanup = "-"
		}
		sb.WriteString(fmt.Sprintf("  %s  %s\n", run.ID, run.CreatedAt.Local().Format("2006-01-02 15:04:05")))
		sb.WriteString(fmt.Sprintf("    input %s  output %s  total %d  cleanup %s\n",
			shortDigest(run.InputDigest), shortDigest(run.OutputDigest), run.Counts.Total(), cleanup))
	}
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

// writeBanner writes a centered title between two rules.
func writeBanner(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(" ", (70-len(title))/2))
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")
}
