package report

import (
	"io"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/mailscrub/internal/model"
	"github.com/nao1215/mailscrub/internal/session"
)

// Writer defines the interface for report output.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files or stdout with the same
// API.
type Writer interface {
	// Write outputs the analysis summary of one document.
	// Returns the number of bytes written and any error encountered.
	Write(summary *Summary) (int, error)

	// WriteHistory outputs the recorded runs of a session.
	WriteHistory(sessionName string, runs []session.Run) (int, error)
}

// Format selects a Writer implementation.
type Format int

const (
	// FormatSimple is the human-readable text format.
	FormatSimple Format = iota
	// FormatJSON is the JSON format.
	FormatJSON
	// FormatMarkdown is the Markdown format.
	FormatMarkdown
)

// FormatFor returns the format selected by the report flags.
// JSON wins when both are set; config validation rejects that case.
func FormatFor(jsonReport, markdownReport bool) Format {
	switch {
	case jsonReport:
		return FormatJSON
	case markdownReport:
		return FormatMarkdown
	default:
		return FormatSimple
	}
}

// New creates a Writer for the given format.
func New(format Format, output io.Writer) Writer {
	switch format {
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint())
	case FormatMarkdown:
		return NewMarkdownWriter(output)
	default:
		return NewSimpleWriter(output)
	}
}

// Summary is the analysis report of one document.
type Summary struct {
	// Source names the analyzed document, usually a file path.
	Source string `json:"source"`

	// Counts are the analyzer results.
	Counts model.AnalysisCounts `json:"counts"`

	// Total is the sum of all counts.
	Total int `json:"total"`

	// GeneratedAt is when the summary was created.
	GeneratedAt time.Time `json:"generated_at"`
}

// NewSummary creates a Summary for the given document counts.
func NewSummary(source string, counts model.AnalysisCounts) *Summary {
	return &Summary{
		Source:      source,
		Counts:      counts,
		Total:       counts.Total(),
		GeneratedAt: time.Now(),
	}
}

// countRow is one labeled count, in display order.
type countRow struct {
	label string
	value int
}

// countRows lists the counts with lower-case labels. Writers case the
// labels for their format.
func countRows(c model.AnalysisCounts) []countRow {
	return []countRow{
		{"click links", c.ClickLinks},
		{"opt-out links", c.OptOutLinks},
		{"unsubscribe links", c.UnsubLinks},
		{"content images", c.ContentImages},
		{"tracking pixels", c.TrackingPixels},
		{"comments", c.CommentNodes},
	}
}

// titleCase returns s in title case, e.g. "Opt-Out Links".
// A cases.Caser keeps state, so one is created per call.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// upperCase returns s in upper case.
func upperCase(s string) string {
	return cases.Upper(language.English).String(s)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// shortDigest truncates a hex digest for display.
func shortDigest(d string) string {
	return truncateString(d, 12)
}

// truncateString truncates a string to maxLen characters.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
