package mdblog

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits after the last change before it
// reloads.
const DefaultDebounce = 250 * time.Millisecond

// Watch reloads lib whenever a file under dir changes. Bursts of events are
// collapsed into one reload after debounce. Directories created later are
// watched too. It blocks until ctx is cancelled.
func Watch(ctx context.Context, dir string, lib *Library, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("mdblog: create watcher: %w", err)
	}
	defer w.Close()

	if err := addWatchRecursive(w, dir); err != nil {
		return fmt.Errorf("mdblog: watch %s: %w", dir, err)
	}
	lib.logger.Infof("mdblog: watching %s", dir)

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(w, event) {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			lib.logger.Warnf("mdblog: watcher: %v", err)

		case <-timer.C:
			if err := lib.Reload(ctx); err != nil {
				lib.logger.Warnf("mdblog: reload: %v", err)
			}
		}
	}
}

// relevant reports whether event should trigger a reload. New directories
// are added to the watch list as a side effect.
func relevant(w *fsnotify.Watcher, event fsnotify.Event) bool {
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = addWatchRecursive(w, event.Name)
			return true
		}
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

func addWatchRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.Add(p)
	})
}
