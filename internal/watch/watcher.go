package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"dirsort/internal/errors"
	"dirsort/internal/log"
	"dirsort/internal/organize"

	"github.com/fsnotify/fsnotify"
)

// RunFunc performs one organize pass over the watched directory
type RunFunc func() error

// Watcher re-runs an organize pass after new files in a directory settle.
// Passes run on the watcher's own goroutine, one at a time.
type Watcher struct {
	dir      string
	debounce time.Duration
	run      RunFunc

	// fsnotify watcher instance
	fsWatcher *fsnotify.Watcher

	mutex   sync.RWMutex
	running bool
	runs    int
}

// New creates a watcher for dir using fsnotify
func New(dir string, debounce time.Duration, run RunFunc) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.NewNotFoundError("error accessing directory", dir, err)
	}
	if !info.IsDir() {
		return nil, errors.NewNotFoundError("target is not a directory", dir, nil)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}

	return &Watcher{
		dir:       filepath.Clean(dir),
		debounce:  debounce,
		run:       run,
		fsWatcher: fsWatcher,
	}, nil
}

// Run performs an initial pass, then one more pass each time file events
// stop arriving for the debounce period. It returns when ctx is done or the
// watched directory disappears.
func (w *Watcher) Run(ctx context.Context) error {
	w.mutex.Lock()
	if w.running {
		w.mutex.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mutex.Unlock()

	defer func() {
		if err := w.fsWatcher.Close(); err != nil {
			log.LogWithError(err).Error("Error closing fsnotify watcher")
		}
		w.mutex.Lock()
		w.running = false
		w.mutex.Unlock()
		log.Info("Watcher stopped.")
	}()

	logger := log.LogWithFields(log.F("directory", w.dir), log.F("debounce", w.debounce.String()))
	logger.Info("Watching directory")

	if err := w.pass(); errors.IsNotFound(err) {
		return err
	}

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) == w.dir && (event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename)) {
				return errors.NewNotFoundError("watched directory was removed", w.dir, nil)
			}
			if !w.relevant(event) {
				continue
			}
			log.LogWithFields(log.F("file", event.Name), log.F("op", event.Op.String())).Debug("File event")
			// Each event restarts the quiet period
			fire = time.After(w.debounce)

		case <-fire:
			fire = nil
			if err := w.pass(); errors.IsNotFound(err) {
				return err
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			log.LogWithError(err).Error("fsnotify watcher error")
		}
	}
}

// relevant keeps create/write events on files directly in the directory.
// Category folders appearing are the result of our own passes.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return false
	}
	name := filepath.Base(event.Name)
	if organize.IsCategoryName(name) {
		return false
	}
	info, err := os.Stat(event.Name)
	if err != nil {
		// File might have been quickly moved or deleted after the event
		return false
	}
	return !info.IsDir()
}

func (w *Watcher) pass() error {
	w.mutex.Lock()
	w.runs++
	w.mutex.Unlock()

	err := w.run()
	if err != nil {
		log.LogWithError(err).With(log.F("directory", w.dir)).Warn("Organize pass failed")
	}
	return err
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// Runs returns how many passes have started
func (w *Watcher) Runs() int {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.runs
}

// Directory returns the directory being watched
func (w *Watcher) Directory() string {
	return w.dir
}
