package config

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"mcpd/pkg/logging"
)

// Watch watches path for writes and sends on changed each time the file is
// rewritten (editors that replace-by-rename still trigger a Create event on
// the new inode, which is handled the same way as Write). The watch is set
// on path's directory so it survives such a replacement; events for other
// files in that directory are ignored. The watcher runs until stop is closed.
func Watch(path string, changed chan<- struct{}, stop <-chan struct{}) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-stop:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					select {
					case changed <- struct{}{}:
					default:
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.Warn("ConfigWatch", "watch error on %s: %v", path, err)
			}
		}
	}()
	return nil
}
