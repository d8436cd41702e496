package shader

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowbox/internal/logger"
)

// Watcher reports edits to shader files in a directory.
// Bursts of events collapse into a single pending notification, so a
// reader that polls Changed once per frame reloads at most once.
type Watcher struct {
	fs      *fsnotify.Watcher
	changed chan struct{}
	done    chan struct{}
}

// Watch starts watching dir for .vert and .frag writes.
func Watch(dir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create shader watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		fs:      fw,
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !isShaderFile(ev.Name) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("shader source changed", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
			select {
			case w.changed <- struct{}{}:
			default:
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logger.Warn("shader watcher error", zap.Error(err))
		}
	}
}

func isShaderFile(name string) bool {
	switch filepath.Ext(name) {
	case ".vert", ".frag":
		return true
	}
	return false
}

// Changed receives once after one or more shader files were modified.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	err := w.fs.Close()
	<-w.done
	return err
}
