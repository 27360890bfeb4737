package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nao1215/mailscrub/internal/analyzer"
	"github.com/nao1215/mailscrub/internal/model"
)

// DefaultDebounce is the quiet period before a changed file is analyzed.
const DefaultDebounce = 250 * time.Millisecond

// Handler receives the counts of each analysis. Calls never overlap.
type Handler func(path string, counts model.AnalysisCounts)

// Watcher analyzes one file on start and after every change.
type Watcher struct {
	path     string
	handler  Handler
	debounce time.Duration
	logger   *slog.Logger

	// mu serializes handler calls and guards stopped.
	mu sync.Mutex

	// stopped is set when Run returns. A debounced analysis that fires
	// afterwards is dropped.
	stopped bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Values below zero are ignored.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// New creates a Watcher for path.
func New(path string, handler Handler, opts ...Option) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		handler:  handler,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	return w
}

// Run analyzes the file once and then on every change until ctx is done.
// It returns nil when ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if _, err := os.Stat(w.path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.mu.Lock()
	w.stopped = false
	w.mu.Unlock()
	defer w.stop()

	w.analyze()

	debouncer := NewDebouncer(w.debounce, w.analyze)
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("file changed", "path", event.Name, "op", event.Op.String())
			debouncer.Trigger()
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// relevant reports whether event may have changed the watched file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// analyze reads the file and passes its counts to the handler. A file
// that is missing or unreadable mid-save is skipped with a warning.
func (w *Watcher) analyze() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.logger.Warn("failed to read watched file", "path", w.path, "error", err)
		return
	}

	counts := analyzer.Analyze(string(data))

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.handler(w.path, counts)
}

// stop waits for a running handler call and blocks later ones.
func (w *Watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
}
