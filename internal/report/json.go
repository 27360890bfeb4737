package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/mailscrub/internal/model"
	"github.com/nao1215/mailscrub/internal/session"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because it is sufficient for these small documents and
// provides consistent behavior across Go versions.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
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

// Write outputs the summary in JSON format.
func (w *JSONWriter) Write(summary *Summary) (int, error) {
	return w.writeJSON(summary)
}

// historyEntry is the JSON form of a session.Run.
type historyEntry struct {
	ID           string               `json:"id"`
	InputDigest  string               `json:"input_sha3_256"`
	OutputDigest string               `json:"output_sha3_256"`
	Counts       model.AnalysisCounts `json:"counts"`
	Cleanup      []string             `json:"cleanup"`
	CreatedAt    time.Time            `json:"created_at"`
}

// historyReport is the JSON form of a session history.
type historyReport struct {
	Session string         `json:"session"`
	Runs    []historyEntry `json:"runs"`
}

// WriteHistory outputs the runs in JSON format.
func (w *JSONWriter) WriteHistory(sessionName string, runs []session.Run) (int, error) {
	h := historyReport{
		Session: sessionName,
		Runs:    make([]historyEntry, 0, len(runs)),
	}
	for _, run := range runs {
		h.Runs = append(h.Runs, historyEntry{
			ID:           run.ID,
			InputDigest:  run.InputDigest,
			OutputDigest: run.OutputDigest,
			Counts:       run.Counts,
			Cleanup:      run.Flags.Enabled(),
			CreatedAt:    run.CreatedAt,
		})
	}
	return w.writeJSON(h)
}

// writeJSON marshals the given value to JSON and writes it to the output.
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

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
