package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/semindex/pkg/fileindexer"
	"github.com/gnana997/semindex/pkg/location"
	"github.com/gnana997/semindex/pkg/parser"
	"github.com/gnana997/semindex/pkg/parser/queries"
	"github.com/gnana997/semindex/pkg/project"
	"github.com/gnana997/semindex/pkg/xref"
)

// WatchOptions configures a Watcher's debouncing and ignore rules.
//
// Grounded on the teacher's WatchOptions (pkg/indexer/types.go).
type WatchOptions struct {
	// DebounceMs groups rapid-fire events for the same file into one
	// reindex. Default 200ms.
	DebounceMs int

	// IgnorePatterns are filepath.Match patterns checked against a
	// path's base name.
	IgnorePatterns []string
}

// DefaultWatchOptions mirrors the teacher's defaults.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		DebounceMs:     200,
		IgnorePatterns: []string{"*.swp", "*.tmp", "*~"},
	}
}

// Watcher re-indexes files incrementally as the filesystem changes,
// keeping a project.Index's state current without a full rescan.
//
// Grounded on the teacher's FileWatcher (pkg/indexer/watcher.go): same
// fsnotify.Watcher plumbing, same per-file debounce-timer map, same
// event-loop/handleEvent/shouldIgnore shape. What changes is what a
// debounced event actually does: the teacher re-extracts via
// extractor.Extractor and calls SymbolIndexer.AddFileSymbolsWithTypes;
// here a write/create re-runs fileindexer.IndexFile and calls
// project.Index.UpdateFile (which itself marks every importing file
// dirty per §5's incremental-update semantics), and after the debounced
// reindex lands, xref.Run is re-invoked project-wide so cross-file
// resolution reflects the change — §4.8 resolution depends on global
// state (type trackers, override edges) that a single file's update
// can invalidate for its importers.
type Watcher struct {
	watcher     *fsnotify.Watcher
	proj        *project.Index
	pm          *parser.ParserManager
	qm          *queries.QueryManager
	logger      *slog.Logger
	options     WatchOptions
	maxFileSize int64

	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex

	// onReindex, if set, is called after every debounced reindex (full
	// or removal) completes, with the refreshed cross-file resolution
	// result. Tests and callers that want to observe resolution state
	// without polling proj directly can set this.
	onReindex func(*xref.Result)
}

// NewWatcher builds a Watcher over proj. pm/qm are shared with any
// Scanner indexing the same project, same pooling rationale as there.
func NewWatcher(proj *project.Index, pm *parser.ParserManager, qm *queries.QueryManager, options WatchOptions, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("workspace: create file watcher: %w", err)
	}
	if options.DebounceMs == 0 {
		options.DebounceMs = 200
	}
	if logger == nil {
		logger = slog.Default()
	}
	maxFileSize := proj.MaxFileSize()
	if maxFileSize <= 0 {
		maxFileSize = fileindexer.MaxFileSize
	}
	return &Watcher{
		watcher:        fsw,
		proj:           proj,
		pm:             pm,
		qm:             qm,
		logger:         logger,
		options:        options,
		maxFileSize:    int64(maxFileSize),
		debounceTimers: make(map[string]*time.Timer),
		stopChan:       make(chan struct{}),
	}, nil
}

// OnReindex registers a callback invoked after each debounced reindex.
func (w *Watcher) OnReindex(fn func(*xref.Result)) {
	w.onReindex = fn
}

// Start begins watching rootPath and every subdirectory beneath it
// that isn't ignored. Returns an error once the watcher has been
// stopped; a second call on a running watcher is not rejected.
func (w *Watcher) Start(rootPath string) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return fmt.Errorf("workspace: watcher already stopped")
	}
	w.mu.Unlock()

	if err := w.watcher.Add(rootPath); err != nil {
		return fmt.Errorf("workspace: watch %s: %w", rootPath, err)
	}

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if w.shouldIgnore(path) {
				return filepath.SkipDir
			}
			if err := w.watcher.Add(path); err != nil {
				w.logger.Warn("workspace: failed to watch directory", "path", path, "error", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("workspace: setup watches under %s: %w", rootPath, err)
	}

	w.logger.Info("workspace watcher started", "root", rootPath)
	go w.eventLoop()
	return nil
}

// Stop shuts the watcher down. Idempotent.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopChan)

	w.debounceMu.Lock()
	for _, timer := range w.debounceTimers {
		timer.Stop()
	}
	w.debounceTimers = make(map[string]*time.Timer)
	w.debounceMu.Unlock()

	return w.watcher.Close()
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("workspace watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	filePath := event.Name
	if w.shouldIgnore(filePath) {
		return
	}
	if parser.DetectLanguage(filePath) == parser.LanguageUnknown {
		return
	}

	switch {
	case event.Op&fsnotify.Write == fsnotify.Write, event.Op&fsnotify.Create == fsnotify.Create:
		w.debounceReindex(filePath)
	case event.Op&fsnotify.Remove == fsnotify.Remove, event.Op&fsnotify.Rename == fsnotify.Rename:
		w.removeFile(filePath)
	}
}

func (w *Watcher) debounceReindex(filePath string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, exists := w.debounceTimers[filePath]; exists {
		timer.Stop()
	}
	w.debounceTimers[filePath] = time.AfterFunc(
		time.Duration(w.options.DebounceMs)*time.Millisecond,
		func() {
			w.reindexFile(filePath)
			w.debounceMu.Lock()
			delete(w.debounceTimers, filePath)
			w.debounceMu.Unlock()
		},
	)
}

func (w *Watcher) reindexFile(filePath string) {
	path := location.FilePath(filePath)
	w.proj.MarkDirty(path)

	if info, err := os.Stat(filePath); err == nil && info.Size() > w.maxFileSize {
		w.logger.Warn("workspace: skipping oversized file", "file", filePath, "size", info.Size(), "limit", w.maxFileSize)
		return
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		w.logger.Warn("workspace: failed to read file for reindex", "file", filePath, "error", err)
		return
	}

	fi, err := fileindexer.IndexFile(w.pm, w.qm, filePath, content)
	if err != nil {
		w.logger.Warn("workspace: failed to index file", "file", filePath, "error", err)
		return
	}

	w.proj.UpdateFile(path, fi)
	w.logger.Debug("workspace: file reindexed", "file", filePath)
	w.rerunResolution()
}

func (w *Watcher) removeFile(filePath string) {
	w.proj.RemoveFile(location.FilePath(filePath))
	w.logger.Debug("workspace: file removed from index", "file", filePath)
	w.rerunResolution()
}

func (w *Watcher) rerunResolution() {
	result := xref.Run(w.proj)
	if w.onReindex != nil {
		w.onReindex(result)
	}
}

func (w *Watcher) shouldIgnore(path string) bool {
	for _, pattern := range w.options.IgnorePatterns {
		if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
			return true
		}
	}
	switch filepath.Base(path) {
	case "node_modules", ".git", "dist", "build", ".next", "target", "__pycache__", ".venv", "venv":
		return true
	}
	return false
}
