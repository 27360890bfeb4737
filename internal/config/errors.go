package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and the file loader.
//
// Design decision: We use package-level sentinel errors so callers can use
// errors.Is() while still getting human-readable messages. Dynamic values
// are added by wrapping with %w.
var (
	// ErrNoInput is returned when no input file is given.
	ErrNoInput = errors.New("no input specified: provide an HTML file or - for stdin")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidTarget is returned when a redirect target contains quotes,
	// angle brackets or whitespace.
	ErrInvalidTarget = errors.New("invalid target: must not contain quotes, angle brackets or whitespace")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrUnknownProfile is returned when the requested profile is not
	// defined in the configuration file.
	ErrUnknownProfile = errors.New("unknown profile")
)
