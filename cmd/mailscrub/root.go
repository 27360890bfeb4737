package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for mailscrub.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mailscrub",
		Short: "Neutralize tracking in HTML marketing email",
		Long: `mailscrub analyzes and rewrites HTML marketing email.

It counts click-tracking, opt-out and unsubscribe links, content images,
tracking pixels and comments, and rewrites the tracking parts of a message:
links are redirected to the targets you configure, the open tracking pixel
is pointed at your own address, and optional cleanup passes strip
attributes, images, text, comments and inline styles.

Every single-input apply is stored in a named session so it can be undone.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewApplyCmd())
	cmd.AddCommand(NewUndoCmd())
	cmd.AddCommand(NewResetCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
