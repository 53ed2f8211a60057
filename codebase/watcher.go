package codebase

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dhamidi/themis/metrics"
	"github.com/dhamidi/themis/pom"
	"github.com/fsnotify/fsnotify"
)

// FileWatcher re-analyses the codebase when Java sources or POM files
// change. Bursts of events are collapsed into one analysis once nothing
// has changed for the debounce interval.
type FileWatcher struct {
	codebase  *Codebase
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration
	exclude   []string
	onChange  func([]string)

	pending   map[string]bool
	pendingMu sync.Mutex
	timer     *time.Timer
	runMu     sync.Mutex
	started   bool
	done      chan struct{}
}

func NewFileWatcher(c *Codebase, debounce time.Duration) (*FileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FileWatcher{
		codebase:  c,
		fsWatcher: fsw,
		debounce:  debounce,
		exclude:   c.opts.Exclude,
		pending:   make(map[string]bool),
		done:      make(chan struct{}),
	}, nil
}

// OnChange replaces the default reaction to changes, which is to analyse
// the codebase again.
func (w *FileWatcher) OnChange(fn func([]string)) {
	w.onChange = fn
}

// Start watches every directory below the codebase root.
func (w *FileWatcher) Start() error {
	if err := w.watchRecursive(w.codebase.RootDir()); err != nil {
		return err
	}
	w.started = true
	go w.run()
	return nil
}

func (w *FileWatcher) Stop() error {
	w.pendingMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()
	err := w.fsWatcher.Close()
	if w.started {
		<-w.done
	}
	return err
}

func (w *FileWatcher) watchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.skipDir(path) {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
}

func (w *FileWatcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			metrics.WatcherEventsTotal.Inc()

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !w.skipDir(event.Name) {
						if err := w.watchRecursive(event.Name); err != nil {
							log().Warningf("watch %s: %s", event.Name, err)
						}
						w.scheduleChange(event.Name)
					}
					continue
				}
			}
			if !w.relevant(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.scheduleChange(event.Name)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log().Errorf("watcher: %s", err)
		}
	}
}

func (w *FileWatcher) scheduleChange(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flushChanges)
}

func (w *FileWatcher) flushChanges() {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]bool)
	w.pendingMu.Unlock()

	if len(paths) == 0 {
		return
	}
	w.runMu.Lock()
	defer w.runMu.Unlock()
	if w.onChange != nil {
		w.onChange(paths)
		return
	}
	log().Infof("%d files changed, analysing %s", len(paths), w.codebase.RootDir())
	if _, err := w.codebase.Analyze(context.Background()); err != nil {
		log().Errorf("analyse %s: %s", w.codebase.RootDir(), err)
	}
}

// skipDir reports whether a directory is hidden, a Maven build directory
// or excluded.
func (w *FileWatcher) skipDir(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || base == "target" {
		return true
	}
	return w.excluded(path)
}

func (w *FileWatcher) relevant(path string) bool {
	base := filepath.Base(path)
	if base != pom.FileName && !strings.HasSuffix(base, ".java") {
		return false
	}
	return !w.excluded(path)
}

func (w *FileWatcher) excluded(path string) bool {
	rel, err := filepath.Rel(w.codebase.RootDir(), path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range w.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
