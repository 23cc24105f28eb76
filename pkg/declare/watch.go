package declare

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Update is one reload of a watched declaration file. Err is set when the
// file could not be read or parsed; Document then holds nothing.
type Update struct {
	Document Document
	Err      error
}

// Watch loads path immediately and again whenever it is written or replaced.
// The channel closes when ctx is done or the watcher fails.
func Watch(ctx context.Context, path string, reg *Registry) (<-chan Update, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("declare: create watcher: %w", err)
	}
	// Editors often replace files on save, so watch the directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("declare: watch %s: %w", path, err)
	}
	target := filepath.Clean(path)

	out := make(chan Update)
	go func() {
		defer close(out)
		defer watcher.Close()

		if !sendUpdate(ctx, out, load(path, reg)) {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if _, err := os.Stat(path); err != nil {
					continue
				}
				if !sendUpdate(ctx, out, load(path, reg)) {
					return
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return out, nil
}

func load(path string, reg *Registry) Update {
	doc, err := LoadFile(path, reg)
	return Update{Document: doc, Err: err}
}

func sendUpdate(ctx context.Context, out chan<- Update, u Update) bool {
	select {
	case out <- u:
		return true
	case <-ctx.Done():
		return false
	}
}
