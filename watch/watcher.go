// Package watch re-triggers ontology checks when target files change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config configures the file watcher
type Config struct {
	// Paths are the ontology files to watch
	Paths []string

	// Debounce is how long to wait for more changes before emitting
	Debounce time.Duration

	// Logger for logging events
	Logger *slog.Logger
}

// Operation indicates the type of file operation
type Operation string

const (
	OpCreate Operation = "create"
	OpModify Operation = "modify"
	OpDelete Operation = "delete"
)

// Change is a single debounced change to a watched file
type Change struct {
	Path      string
	Operation Operation
}

// Watcher watches ontology files. Parent directories are watched rather than
// the files themselves so editors that save by rename are still seen.
type Watcher struct {
	config  Config
	watcher *fsnotify.Watcher
	logger  *slog.Logger
	targets map[string]bool

	// Debouncing: collect changes before emitting
	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op // path → accumulated operations

	// Output channel, closed when the watcher stops
	events chan []Change
}

// New creates a new file watcher
func New(config Config) (*Watcher, error) {
	if len(config.Paths) == 0 {
		return nil, fmt.Errorf("no paths to watch")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if config.Debounce <= 0 {
		config.Debounce = 100 * time.Millisecond
	}

	targets := make(map[string]bool, len(config.Paths))
	for _, p := range config.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		targets[abs] = true
	}

	return &Watcher{
		config:  config,
		watcher: fsw,
		logger:  logger,
		targets: targets,
		pending: make(map[string]fsnotify.Op),
		events:  make(chan []Change, 16),
	}, nil
}

// Events returns the channel of debounced change batches
func (w *Watcher) Events() <-chan []Change {
	return w.events
}

// Start begins watching the parent directory of every target
func (w *Watcher) Start(ctx context.Context) error {
	dirs := make(map[string]bool)
	for p := range w.targets {
		dirs[filepath.Dir(p)] = true
	}

	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.logger.Debug("Watching directory", "path", dir)
	}

	go w.processEvents(ctx)

	w.logger.Info("File watcher started",
		"files", len(w.targets),
		"debounce", w.config.Debounce)

	return nil
}

// Stop stops the watcher; the events channel is closed once processing ends
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// processEvents handles fsnotify events with debouncing
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	ticker := time.NewTicker(w.config.Debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

// handleFSEvent records a change to a watched file
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := filepath.Clean(event.Name)
	if !w.targets[path] {
		return
	}
	if event.Op == fsnotify.Chmod {
		return
	}

	w.pendingMu.Lock()
	w.pending[path] |= event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("File change detected",
		"path", path,
		"op", event.Op.String())
}

// flushPending emits accumulated changes as one batch
func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	batch := make([]Change, 0, len(toProcess))
	for path, op := range toProcess {
		batch = append(batch, Change{Path: path, Operation: operation(op)})
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path })

	select {
	case w.events <- batch:
		w.logger.Debug("Sent watch batch", "changes", len(batch))
	case <-ctx.Done():
	default:
		w.logger.Warn("Event channel full, dropping batch", "changes", len(batch))
	}
}

// operation collapses accumulated fsnotify ops into the most significant one.
// A file removed and recreated within the window counts as created.
func operation(op fsnotify.Op) Operation {
	switch {
	case op.Has(fsnotify.Create):
		return OpCreate
	case op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename):
		return OpDelete
	default:
		return OpModify
	}
}
