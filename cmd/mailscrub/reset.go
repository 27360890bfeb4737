package main

import (
	"fmt"

	"github.com/nao1215/mailscrub/internal/config"
	"github.com/spf13/cobra"
)

// NewResetCmd creates the reset command.
func NewResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear a session",
		Long: `Reset clears the stored input, output and undo buffer of a session.
The run history shown by 'mailscrub history' is kept.

Examples:
  mailscrub reset
  mailscrub reset --session work`,
		Args: cobra.NoArgs,
		RunE: runResetCmd,
	}

	addSessionFlags(cmd)

	return cmd
}

// runResetCmd executes the reset command.
func runResetCmd(cmd *cobra.Command, _ []string) error {
	name, dbDir, err := sessionFlags(cmd, config.XDGDataDir())
	if err != nil {
		return err
	}

	store, err := openStore(dbDir)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Reset(cmd.Context(), name); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Reset session: %s\n", name)
	return nil
}
