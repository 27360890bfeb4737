package pipeline

import "errors"

// ErrEmptyInput is returned when apply is called without markup.
// It is reported before the first pass runs and is not retryable.
var ErrEmptyInput = errors.New("empty input: provide some HTML first")
