package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/mailscrub/internal/config"
	"github.com/nao1215/mailscrub/internal/sample"
	"github.com/spf13/cobra"
)

//go:embed templates/mailscrub.yaml
var configTemplate embed.FS

// configTemplatePath is the path of the template inside configTemplate.
const configTemplatePath = "templates/mailscrub.yaml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new mailscrub configuration file",
		Long: `Initialize creates a new .mailscrub configuration file in the current directory.

The generated file includes:
- Commented default redirect targets
- Every cleanup option, switched off
- An example profile

With --sample, a small marketing newsletter is written as well, so the
configuration can be tried right away with 'mailscrub analyze' and
'mailscrub apply'.

Examples:
  # Create .mailscrub in current directory
  mailscrub init

  # Create config file at a specific path
  mailscrub init -o myconfig.yaml

  # Also write a sample message to try it on
  mailscrub init --sample newsletter.html

  # Force overwrite existing files
  mailscrub init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing files")
	cmd.Flags().String("sample", "",
		"Also write a sample newsletter to this path")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	samplePath, err := cmd.Flags().GetString("sample")
	if err != nil {
		return err
	}

	content, err := configTemplate.ReadFile(configTemplatePath)
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	if err := writeNewFile(outputPath, content, force); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)

	if samplePath != "" {
		if err := writeNewFile(samplePath, []byte(sample.Newsletter), force); err != nil {
			return err
		}
		fmt.Fprintf(out, "Created sample message: %s\n", samplePath)
	}

	fmt.Fprintln(out, "\nEdit this file to configure:")
	fmt.Fprintln(out, "  - Redirect targets for click, opt-out and unsubscribe links")
	fmt.Fprintln(out, "  - The source of the open tracking pixel")
	fmt.Fprintln(out, "  - Cleanup passes and named profiles")

	return nil
}

// writeNewFile writes content to path with owner-only permissions. An
// existing file is only replaced when force is set.
func writeNewFile(path string, content []byte, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("file already exists: %s (use -f to overwrite)", path)
		}
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
