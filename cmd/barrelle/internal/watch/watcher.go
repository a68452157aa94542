package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/albertocavalcante/barrelle/cmd/barrelle/internal/runner"
	"github.com/albertocavalcante/barrelle/pkg/barrel"
)

// ignoredDirPrefixes are directory name prefixes never watched: hidden
// directories, dependency trees, and build output.
var ignoredDirPrefixes = []string{
	".", "node_modules", "dist", "build", "coverage", "out",
}

// Config configures the watcher.
type Config struct {
	Root       string
	BarrelName string // barrel file name, default index.ts
	Debounce   int    // debounce window in milliseconds
	Verbose    bool
	NoColor    bool
	JSON       bool

	// Queue serializes the regeneration runs triggered by flushes.
	Queue *runner.Queue
	// Options are applied to every triggered run.
	Options barrel.Options
}

// Watcher watches a source tree and regenerates barrels when files change.
type Watcher struct {
	config    Config
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	logger    *Logger
	dirCount  int
}

// New creates a new watcher with the given configuration.
func New(cfg Config) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if cfg.BarrelName == "" {
		cfg.BarrelName = barrel.DefaultBarrelName
	}
	logger := NewLogger(LoggerConfig{
		Verbose: cfg.Verbose,
		NoColor: cfg.NoColor,
		JSON:    cfg.JSON,
	})

	return &Watcher{
		config:    cfg,
		fsWatcher: fsWatcher,
		logger:    logger,
	}, nil
}

// Run starts the watch loop. It blocks until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	debounceWindow := time.Duration(w.config.Debounce) * time.Millisecond
	if debounceWindow <= 0 {
		debounceWindow = 500 * time.Millisecond
	}
	w.debouncer = NewDebouncer(debounceWindow, w.handleChangedDirs)
	defer w.debouncer.Stop()

	if err := w.addRecursive(w.config.Root); err != nil {
		return fmt.Errorf("failed to watch tree: %w", err)
	}

	w.logger.Ready(w.dirCount, w.config.Root)

	for {
		select {
		case <-ctx.Done():
			w.logger.Shutdown()
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error(err)
		}
	}
}

// addRecursive adds a directory and all subdirectories to the watcher.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsPermission(err) {
				if w.config.Verbose {
					w.logger.Error(fmt.Errorf("permission denied: %s", path))
				}
				return nil
			}
			w.logger.Error(fmt.Errorf("walk error at %s: %w", path, err))
			return nil
		}

		if !d.IsDir() {
			return nil
		}
		if path != root && ignoredDir(d.Name()) {
			return filepath.SkipDir
		}

		if err := w.fsWatcher.Add(path); err != nil {
			if isWatchLimitError(err) {
				return fmt.Errorf("inotify watch limit reached for %s: %w\n"+
					"Increase limit with: sudo sysctl fs.inotify.max_user_watches=524288", path, err)
			}
			if w.config.Verbose {
				w.logger.Error(fmt.Errorf("failed to watch %s: %w", path, err))
			}
			return nil
		}
		w.dirCount++
		return nil
	})
}

func ignoredDir(name string) bool {
	for _, prefix := range ignoredDirPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// isWatchLimitError checks if an error is due to inotify watch limits.
func isWatchLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "no space left on device") ||
		strings.Contains(errStr, "too many open files")
}

// handleEvent processes a single filesystem event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	// New directories are watched as they appear.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if ignoredDir(filepath.Base(path)) {
				return
			}
			if err := w.addRecursive(path); err != nil {
				w.logger.Error(fmt.Errorf("failed to watch new directory %s: %w", path, err))
			}
			return
		}
	}

	if !w.triggersRegeneration(filepath.Base(path)) {
		return
	}

	var changeType ChangeType
	switch {
	case event.Has(fsnotify.Create):
		changeType = ChangeAdded
	case event.Has(fsnotify.Write):
		changeType = ChangeModified
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		changeType = ChangeDeleted
	default:
		return // ignore chmod events
	}

	w.logger.FileChanged(path, changeType)

	relPath, err := filepath.Rel(w.config.Root, path)
	if err != nil {
		return
	}
	w.debouncer.Add(filepath.Dir(relPath))
}

// triggersRegeneration reports whether a change to the named file affects
// its directory's barrel. Barrel writes themselves are filtered out so a
// regeneration never re-triggers the watcher.
func (w *Watcher) triggersRegeneration(name string) bool {
	if name == w.config.BarrelName {
		return false
	}
	if !strings.HasSuffix(name, ".ts") && !strings.HasSuffix(name, ".tsx") {
		return false
	}
	if strings.HasSuffix(name, ".d.ts") ||
		strings.Contains(name, ".test.") || strings.Contains(name, ".spec.") {
		return false
	}
	return true
}

// handleChangedDirs is called when the debouncer flushes. It regenerates
// the barrel of every affected directory through the run queue.
func (w *Watcher) handleChangedDirs(dirs []string) {
	if len(dirs) == 0 {
		return
	}
	slices.Sort(dirs)

	w.logger.Updating(dirs)

	ctx := context.Background()
	for _, dir := range dirs {
		stats, err := w.config.Queue.Generate(ctx, filepath.Join(w.config.Root, dir), w.config.Options)
		if err != nil {
			w.logger.Error(fmt.Errorf("regeneration failed for %s: %w", dir, err))
			continue
		}
		if stats.Written > 0 {
			w.logger.Updated(filepath.Join(dir, w.config.BarrelName))
		}
	}
}

// Close closes the watcher and releases resources.
func (w *Watcher) Close() error {
	if w.fsWatcher != nil {
		return w.fsWatcher.Close()
	}
	return nil
}
