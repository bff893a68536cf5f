// Package watcher re-runs work when an input file changes on disk.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher calls back once per burst of writes to a watched file
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu    sync.Mutex
	files map[string]bool
	timer *time.Timer
}

// NewFileWatcher creates a watcher that waits for debounce of quiet before
// invoking its callback
func NewFileWatcher(debounce time.Duration) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &FileWatcher{
		watcher:  w,
		debounce: debounce,
		files:    make(map[string]bool),
	}, nil
}

// Add starts watching file. The containing directory is watched so that
// editors replacing the file through a rename are still noticed.
func (fw *FileWatcher) Add(file string) error {
	absPath, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", file, err)
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if err := fw.watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", absPath, err)
	}
	fw.files[absPath] = true
	return nil
}

// Run delivers change notifications to onChange until ctx is cancelled or
// the watcher is closed. Callbacks never overlap. Watch errors go to onError
// when it is not nil.
func (fw *FileWatcher) Run(ctx context.Context, onChange func(path string), onError func(error)) error {
	changes := make(chan string, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for path := range changes {
			onChange(path)
		}
	}()
	defer func() {
		fw.stopTimer()
		close(changes)
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if fw.isWatched(event.Name) {
				fw.schedule(event.Name, changes)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			if onError != nil {
				onError(err)
			}
		}
	}
}

func (fw *FileWatcher) isWatched(name string) bool {
	absPath, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.files[absPath]
}

// schedule restarts the debounce timer; when it fires the path is queued
// unless a run is already pending
func (fw *FileWatcher) schedule(path string, changes chan<- string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.timer != nil {
		fw.timer.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(fw.debounce, func() {
		fw.mu.Lock()
		defer fw.mu.Unlock()
		if fw.timer != timer {
			return
		}
		fw.timer = nil
		select {
		case changes <- path:
		default:
		}
	})
	fw.timer = timer
}

func (fw *FileWatcher) stopTimer() {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.timer != nil {
		fw.timer.Stop()
		fw.timer = nil
	}
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
