package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/nao1215/mailscrub/internal/model"
)

// Default configuration values.
const (
	// DefaultBatchSize is the number of documents transformed concurrently
	// when several inputs are given. Transforms are CPU bound, so a small
	// number keeps a laptop responsive.
	DefaultBatchSize = 4

	// DefaultSessionName is the session updated by single-input apply runs
	// and read by undo, reset and history.
	DefaultSessionName = "default"

	// DefaultHistoryLimit is the number of runs shown by the history command.
	DefaultHistoryLimit = 20

	// AppName is the application name used for XDG directory paths.
	AppName = "mailscrub"
)

// Config holds all configuration options for mailscrub.
// This struct is populated from CLI flags and the optional config file and
// is passed through the application rather than kept in global state.
//
// Design decision: We use a single flat struct, as the number of options is
// small. Targets and Flags are the model types so they can be handed to the
// pipeline without conversion.
type Config struct {
	// Targets are the redirect destinations for classified links and the
	// open tracking pixel. Empty targets leave their category untouched.
	Targets model.RedirectTargets

	// Flags are the cleanup passes to enable.
	Flags model.CleanupFlags

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of concurrent transforms when processing
	// multiple inputs.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .mailscrub in the current directory,
	// the user's home directory and the XDG config directory.
	ConfigFilePath string

	// Profile names a profile in the configuration file. Its targets and
	// cleanup options are merged over the file defaults.
	Profile string

	// JSONReport enables JSON count output. Mutually exclusive with
	// MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown count output with a pie chart.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for reports and for the rewritten
	// document of a single-input run. When empty, stdout is used.
	ReportFile string

	// OutputDir receives one rewritten file per input in batch runs.
	OutputDir string

	// SessionName is the name of the persisted session.
	SessionName string

	// UseSession records single-input runs in the session store.
	UseSession bool

	// DBDir is the directory holding the session database.
	// Defaults to XDG data directory (~/.local/share/mailscrub on Linux).
	DBDir string

	// Inputs are the input file paths. "-" reads stdin.
	Inputs []string
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because several defaults are non-zero (batch size, session
// name, database directory). This also documents the defaults.
func NewConfig() *Config {
	return &Config{
		BatchSize:   DefaultBatchSize,
		SessionName: DefaultSessionName,
		UseSession:  true,
		DBDir:       XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for mailscrub.
// On Linux: ~/.local/share/mailscrub
// On macOS: ~/Library/Application Support/mailscrub
// On Windows: %LOCALAPPDATA%\mailscrub
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for mailscrub.
// On Linux: ~/.config/mailscrub
// On macOS: ~/Library/Application Support/mailscrub
// On Windows: %APPDATA%\mailscrub
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first error found.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast, before any input is read.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return ValidateTargets(c.Targets)
}

// ValidateTargets checks every configured target.
func ValidateTargets(t model.RedirectTargets) error {
	for _, target := range []struct {
		name  string
		value string
	}{
		{"click", t.Click},
		{"opt-out", t.OptOut},
		{"unsubscribe", t.Unsubscribe},
		{"opens", t.Opens},
	} {
		if err := ValidateTarget(target.value); err != nil {
			return fmt.Errorf("%w: %s target %q", err, target.name, target.value)
		}
	}
	return nil
}

// ValidateTarget rejects values that would break out of the quoted
// attribute they are written into. An empty target is valid and means
// "not configured".
func ValidateTarget(v string) error {
	if strings.ContainsAny(v, "\"'<>") || strings.ContainsFunc(v, isSpace) {
		return ErrInvalidTarget
	}
	return nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v'
}
