package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nao1215/mailscrub/internal/analyzer"
	"github.com/nao1215/mailscrub/internal/config"
	"github.com/nao1215/mailscrub/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	// errOutputDirRequired is returned when several inputs are given
	// without a directory to write them to.
	errOutputDirRequired = errors.New("--output-dir is required with more than one input")

	// errOutputWithBatch is returned when -o is combined with several inputs.
	errOutputWithBatch = errors.New("--output can only be used with a single input (use --output-dir)")

	// errStdinInBatch is returned when "-" is one of several inputs.
	errStdinInBatch = errors.New("stdin can only be used as the only input")
)

// NewApplyCmd creates the apply command.
func NewApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply [file...]",
		Short: "Redirect tracking links and pixels and clean up a message",
		Long: `Apply rewrites HTML email so that its tracking no longer reaches the sender.

Links are classified as click-tracking, opt-out or unsubscribe links and
their href is replaced by the matching target. Tracking pixels get the
--opens target as their source, or a new pixel pointing there is added.
Targets that are not configured leave their links untouched.

Cleanup passes run after the redirects, in this order:
  --strip-attributes  blank href, src, alt and CSS url() values (targets kept)
  --hide-images       hide every image that is not a tracking pixel
  --strip-text        erase visible text
  --scrub-comments    remove URLs from comments
  --strip-styles      neutralize background colors and borders

A single input is written to stdout (or -o) and stored in the session so
'mailscrub undo' can restore the previous output. Several inputs are
processed concurrently and written to --output-dir.

Examples:
  # Redirect click links and the open pixel
  mailscrub apply --click https://safe.example/c --opens https://safe.example/p.gif in.html

  # Use the targets of the "work" profile from .mailscrub and strip text
  mailscrub apply -P work --strip-text in.html -o out.html

  # Process a directory of messages
  mailscrub apply -P work --output-dir scrubbed/ mail/*.html

Configuration file (.mailscrub) example:
  defaults:
    targets:
      click: https://safe.example/c
  profiles:
    work:
      targets:
        opens: https://safe.example/p.gif
      cleanup:
        scrubComments: true`,
		Args: cobra.ArbitraryArgs,
		RunE: runApplyCmd,
	}

	// Redirect target flags
	cmd.Flags().String("click", "", "Redirect target for click-tracking links")
	cmd.Flags().String("opt-out", "", "Redirect target for opt-out links")
	cmd.Flags().String("unsubscribe", "", "Redirect target for unsubscribe links")
	cmd.Flags().String("opens", "", "Source for the open tracking pixel")

	// Cleanup flags
	cmd.Flags().Bool("strip-attributes", false, "Blank href, src and alt values except targets")
	cmd.Flags().Bool("hide-images", false, "Hide every image that is not a tracking pixel")
	cmd.Flags().Bool("strip-text", false, "Erase visible text outside script and style")
	cmd.Flags().Bool("scrub-comments", false, "Remove URLs from HTML comments")
	cmd.Flags().Bool("strip-styles", false, "Neutralize inline background colors and borders")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .mailscrub in current, home or XDG config directory)")
	cmd.Flags().StringP("profile", "P", "", "Profile from the configuration file")

	// Output flags
	cmd.Flags().StringP("output", "o", "",
		"Write the rewritten message to this file (single input only)")
	cmd.Flags().String("output-dir", "",
		"Directory for rewritten messages when processing several inputs")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent transforms")

	// Session flags
	addSessionFlags(cmd)
	cmd.Flags().Bool("no-session", false, "Do not record this run in the session store")

	return cmd
}

// runApplyCmd executes the apply command.
func runApplyCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildApplyConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.ApplyFile(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	if len(cfg.Inputs) == 1 && cfg.OutputDir == "" {
		return runApplySingle(ctx, cmd, cfg, logger)
	}
	return runApplyBatch(ctx, cmd, cfg, logger)
}

// buildApplyConfig creates a Config from cobra command flags.
func buildApplyConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	stringFlags := []struct {
		name string
		dst  *string
	}{
		{"click", &cfg.Targets.Click},
		{"opt-out", &cfg.Targets.OptOut},
		{"unsubscribe", &cfg.Targets.Unsubscribe},
		{"opens", &cfg.Targets.Opens},
		{"config", &cfg.ConfigFilePath},
		{"profile", &cfg.Profile},
		{"output", &cfg.ReportFile},
		{"output-dir", &cfg.OutputDir},
		{"session", &cfg.SessionName},
	}
	for _, f := range stringFlags {
		v, err := flags.GetString(f.name)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	boolFlags := []struct {
		name string
		dst  *bool
	}{
		{"strip-attributes", &cfg.Flags.StripAttributes},
		{"hide-images", &cfg.Flags.HideImages},
		{"strip-text", &cfg.Flags.StripVisibleText},
		{"scrub-comments", &cfg.Flags.ScrubComments},
		{"strip-styles", &cfg.Flags.StripInlineStyles},
	}
	for _, f := range boolFlags {
		v, err := flags.GetBool(f.name)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	batchSize, err := flags.GetInt("batch")
	if err != nil {
		return nil, err
	}
	cfg.BatchSize = batchSize

	noSession, err := flags.GetBool("no-session")
	if err != nil {
		return nil, err
	}
	cfg.UseSession = !noSession

	dbDir, err := flags.GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Inputs = args
	if len(cfg.Inputs) == 0 {
		cfg.Inputs = []string{stdinName}
	}

	return cfg, nil
}

// runApplySingle transforms one document and records it in the session.
func runApplySingle(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	input, err := readInput(cmd, cfg.Inputs[0])
	if err != nil {
		return err
	}

	output, err := pipeline.Apply(input, cfg.Targets, cfg.Flags, pipeline.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to apply: %w", err)
	}

	if err := writeDocument(cmd, cfg.ReportFile, output); err != nil {
		return err
	}

	if !cfg.UseSession {
		return nil
	}
	return recordSession(ctx, cfg, input, output, logger)
}

// recordSession stores the run so it can be undone and listed later.
func recordSession(ctx context.Context, cfg *config.Config, input, output string, logger *slog.Logger) error {
	store, err := openStore(cfg.DBDir)
	if err != nil {
		return err
	}
	defer store.Close()

	if _, err := store.SaveApply(ctx, cfg.SessionName, input, output); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	run, err := store.RecordRun(ctx, cfg.SessionName, input, output, analyzer.Analyze(input), cfg.Flags)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	logger.Debug("recorded run",
		"session", cfg.SessionName,
		"run", run.ID,
		"db", store.Path(),
	)
	return nil
}

// runApplyBatch transforms every input concurrently and writes the results
// to the output directory. A failing input does not stop the others.
func runApplyBatch(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	if cfg.ReportFile != "" {
		return errOutputWithBatch
	}
	if cfg.OutputDir == "" {
		return errOutputDirRequired
	}

	items, err := readBatchItems(cmd, cfg.Inputs)
	if err != nil {
		return err
	}

	processor := pipeline.NewBatchProcessor(cfg.Targets, cfg.Flags,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	results, err := processor.ProcessBatch(ctx, items)
	if err != nil {
		return fmt.Errorf("batch apply interrupted: %w", err)
	}

	failed := 0
	for _, result := range results {
		if result.Err == nil {
			dst := filepath.Join(cfg.OutputDir, filepath.Base(result.Name))
			if err := writeDocument(cmd, dst, result.Output); err != nil {
				result.Err = err
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", result.Name, dst)
				continue
			}
		}
		failed++
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", result.Name, result.Err)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(results))
	}
	return nil
}

// readBatchItems reads every input. Inputs sharing a base name would
// overwrite each other in the output directory and are rejected.
func readBatchItems(cmd *cobra.Command, paths []string) ([]pipeline.BatchItem, error) {
	seen := make(map[string]string, len(paths))
	items := make([]pipeline.BatchItem, 0, len(paths))

	for _, path := range paths {
		if path == stdinName {
			return nil, errStdinInBatch
		}

		base := filepath.Base(path)
		if prev, ok := seen[base]; ok {
			return nil, fmt.Errorf("inputs %s and %s would both be written to %s", prev, path, base)
		}
		seen[base] = path

		document, err := readInput(cmd, path)
		if err != nil {
			return nil, err
		}
		items = append(items, pipeline.BatchItem{Name: path, Markup: document})
	}
	return items, nil
}
