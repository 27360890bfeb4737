package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	applog "github.com/nao1215/mailscrub/internal/log"
	"github.com/nao1215/mailscrub/internal/session"
	"github.com/spf13/cobra"
)

// stdinName is the input argument that reads the document from stdin.
const stdinName = "-"

// setupLogger creates a structured logger whose output masks tracking
// query strings. Warn level by default, Debug when verbose.
func setupLogger(verbose bool) *slog.Logger {
	return applog.NewRedactingLogger(os.Stderr, verbose)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// readInput returns the document named by path. "-" or an empty path reads
// the command's standard input.
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "" || path == stdinName {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

// sourceName is the label used for an input in reports.
func sourceName(path string) string {
	if path == "" || path == stdinName {
		return "stdin"
	}
	return path
}

// createOutputFile creates or truncates path with owner-only permissions,
// creating parent directories as needed. Rewritten messages may still carry
// recipient data that should only be readable by the owner.
func createOutputFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// writeDocument writes a document to path, or to the command's standard
// output when path is empty.
func writeDocument(cmd *cobra.Command, path, document string) error {
	if path == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), document)
		return err
	}

	f, err := createOutputFile(path)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(f, document); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return f.Close()
}

// withOutput runs fn with the destination for a report: path when set,
// the command's standard output otherwise.
func withOutput(cmd *cobra.Command, path string, fn func(w io.Writer) error) error {
	if path == "" {
		return fn(cmd.OutOrStdout())
	}

	f, err := createOutputFile(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// openStore opens the session database in dbDir.
func openStore(dbDir string) (*session.Store, error) {
	store, err := session.Open(dbDir, session.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	return store, nil
}

// addSessionFlags registers the flags that select a stored session.
func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().String("session", session.DefaultSessionName, "Session name")
	cmd.Flags().String("db-dir", "",
		"Directory holding the session database (default: XDG data directory)")
}

// sessionFlags reads the flags registered by addSessionFlags, applying the
// default database directory.
func sessionFlags(cmd *cobra.Command, defaultDBDir string) (name, dbDir string, err error) {
	name, err = cmd.Flags().GetString("session")
	if err != nil {
		return "", "", err
	}
	dbDir, err = cmd.Flags().GetString("db-dir")
	if err != nil {
		return "", "", err
	}
	if dbDir == "" {
		dbDir = defaultDBDir
	}
	return name, dbDir, nil
}
