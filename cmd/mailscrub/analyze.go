package main

import (
	"fmt"
	"io"

	"github.com/nao1215/mailscrub/internal/analyzer"
	"github.com/nao1215/mailscrub/internal/config"
	"github.com/nao1215/mailscrub/internal/report"
	"github.com/spf13/cobra"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file|-]",
		Short: "Count tracking links, images and comments in a message",
		Long: `Analyze parses an HTML email and reports how many of each element it has:
- click-tracking, opt-out and unsubscribe links
- content images (including CSS background images)
- tracking pixels
- HTML comments

The input is read from the named file, or from stdin when the argument is
"-" or omitted. Analysis never modifies the input.

Examples:
  # Human-readable counts
  mailscrub analyze newsletter.html

  # JSON counts from stdin
  cat newsletter.html | mailscrub analyze --json

  # Markdown report with a pie chart written to a file
  mailscrub analyze -m -o report.md newsletter.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyzeCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	jsonReport, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownReport, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	if jsonReport && markdownReport {
		return fmt.Errorf("configuration error: %w", config.ErrConflictingReportFormats)
	}

	logger := setupLogger(getVerboseFlag(cmd))

	path := stdinName
	if len(args) > 0 {
		path = args[0]
	}
	document, err := readInput(cmd, path)
	if err != nil {
		return err
	}

	counts := analyzer.Analyze(document)
	logger.Debug("analyzed document",
		"source", sourceName(path),
		"total", counts.Total(),
	)

	summary := report.NewSummary(sourceName(path), counts)
	return withOutput(cmd, outputPath, func(w io.Writer) error {
		_, err := report.New(report.FormatFor(jsonReport, markdownReport), w).Write(summary)
		return err
	})
}
