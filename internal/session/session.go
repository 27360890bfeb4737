package session

import (
	"sync"

	"github.com/nao1215/mailscrub/internal/model"
	"github.com/nao1215/mailscrub/internal/pipeline"
)

// Session holds the state of one editing session in memory.
// All methods are safe for concurrent use.
//
// Session is for programs that embed the transform and own their editing
// state, such as an editor plugin keeping one Session per open message.
// The mailscrub CLI runs one apply per process and keeps the same state in
// a Store instead; both share the undo slot rule of undoSlot.
type Session struct {
	mu         sync.Mutex
	lastInput  string
	lastOutput string
	undo       string
	opts       []pipeline.Option
}

// New creates an empty session. The options are passed to every pipeline
// the session runs.
func New(opts ...pipeline.Option) *Session {
	return &Session{opts: opts}
}

// Apply transforms markup and records it as the latest run.
// On ErrEmptyInput the session is left unchanged.
func (s *Session) Apply(markup string, targets model.RedirectTargets, flags model.CleanupFlags) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := pipeline.Apply(markup, targets, flags, s.opts...)
	if err != nil {
		return "", err
	}

	s.undo = undoSlot(s.lastOutput, markup)
	s.lastInput = markup
	s.lastOutput = out
	return out, nil
}

// Undo restores the undo slot as the current output and returns it.
// It reports false when there is nothing to undo.
func (s *Session) Undo() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.undo == "" {
		return "", false
	}
	s.lastOutput = s.undo
	return s.undo, true
}

// Reset clears the input, the output and the undo slot.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastInput = ""
	s.lastOutput = ""
	s.undo = ""
}

// LastInput returns the input of the latest apply.
func (s *Session) LastInput() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastInput
}

// LastOutput returns the current output.
func (s *Session) LastOutput() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastOutput
}

// undoSlot is the previous output, or the input when there was none.
func undoSlot(previousOutput, input string) string {
	if previousOutput != "" {
		return previousOutput
	}
	return input
}
