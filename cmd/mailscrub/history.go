package main

import (
	"fmt"
	"io"

	"github.com/nao1215/mailscrub/internal/config"
	"github.com/nao1215/mailscrub/internal/report"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded apply runs",
		Long: `History lists the single-input apply runs recorded for a session, newest
first. Each run shows the SHA3-256 digests of its input and output, the
analysis counts of the input and the cleanup passes that ran. Documents
themselves are not stored in the history.

Examples:
  mailscrub history
  mailscrub history --session work --limit 5
  mailscrub history --markdown -o history.md`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "l", config.DefaultHistoryLimit,
		"Maximum number of runs to list (0 lists all)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write the history to specified file path")
	addSessionFlags(cmd)

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	name, dbDir, err := sessionFlags(cmd, config.XDGDataDir())
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
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
	if limit < 0 {
		return fmt.Errorf("invalid --limit %d: must be 0 or greater", limit)
	}

	store, err := openStore(dbDir)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(cmd.Context(), name, limit)
	if err != nil {
		return err
	}

	return withOutput(cmd, outputPath, func(w io.Writer) error {
		_, err := report.New(report.FormatFor(jsonReport, markdownReport), w).WriteHistory(name, runs)
		return err
	})
}
