// Package report provides report generation and output functionality.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown with a mermaid pie chart
//
// Two kinds of report are written: the analysis counts of one document
// (Summary) and the run history of a session.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably. New selects one from the report flags.
package report
