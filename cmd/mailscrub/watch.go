package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/mailscrub/internal/model"
	"github.com/nao1215/mailscrub/internal/report"
	"github.com/nao1215/mailscrub/internal/watch"
	"github.com/spf13/cobra"
)

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-analyze a message every time it changes",
		Long: `Watch prints the analysis counts of a file once, and again whenever the file
is written, created or renamed into place. Bursts of changes, such as an
editor saving through a temporary file, are collapsed into one analysis
after a quiet period.

Press Ctrl+C to stop.

Examples:
  mailscrub watch draft.html
  mailscrub watch --debounce 1s draft.html`,
		Args: cobra.ExactArgs(1),
		RunE: runWatchCmd,
	}

	cmd.Flags().Duration("debounce", watch.DefaultDebounce,
		"Quiet period after a change before analyzing")

	return cmd
}

// runWatchCmd executes the watch command.
func runWatchCmd(cmd *cobra.Command, args []string) error {
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return err
	}
	if debounce < 0 {
		return fmt.Errorf("invalid --debounce %s: must not be negative", debounce)
	}

	logger := setupLogger(getVerboseFlag(cmd))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, stopping watch...")
			cancel()
		case <-ctx.Done():
		}
	}()

	writer := report.NewSimpleWriter(cmd.OutOrStdout())
	handler := func(path string, counts model.AnalysisCounts) {
		if _, err := writer.Write(report.NewSummary(path, counts)); err != nil {
			logger.Warn("failed to write report", "error", err)
		}
	}

	w := watch.New(args[0], handler,
		watch.WithDebounce(debounce),
		watch.WithLogger(logger),
	)
	return w.Run(ctx)
}
