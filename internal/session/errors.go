package session

import "errors"

var (
	// ErrNoUndo is returned when undo is requested before any apply.
	ErrNoUndo = errors.New("nothing to undo")

	// ErrSessionNotFound is returned when a named session does not exist.
	ErrSessionNotFound = errors.New("session not found")
)
