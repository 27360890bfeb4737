package main

import (
	"fmt"

	"github.com/nao1215/mailscrub/internal/config"
	"github.com/spf13/cobra"
)

// NewUndoCmd creates the undo command.
func NewUndoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Restore the output before the last apply",
		Long: `Undo writes the session's undo buffer: the output of the apply before the
last one, or the last input when there was no earlier output. The restored
document becomes the session's current output. Undo is one level deep, so
running it twice writes the same document.

Examples:
  # Print the previous output of the default session
  mailscrub undo

  # Restore a named session into a file
  mailscrub undo --session work -o restored.html`,
		Args: cobra.NoArgs,
		RunE: runUndoCmd,
	}

	cmd.Flags().StringP("output", "o", "",
		"Write the restored message to this file instead of stdout")
	addSessionFlags(cmd)

	return cmd
}

// runUndoCmd executes the undo command.
func runUndoCmd(cmd *cobra.Command, _ []string) error {
	name, dbDir, err := sessionFlags(cmd, config.XDGDataDir())
	if err != nil {
		return err
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	logger := setupLogger(getVerboseFlag(cmd))

	store, err := openStore(dbDir)
	if err != nil {
		return err
	}
	defer store.Close()

	document, err := store.Undo(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("failed to undo session %q: %w", name, err)
	}
	logger.Debug("restored undo buffer", "session", name, "bytes", len(document))

	return writeDocument(cmd, outputPath, document)
}
