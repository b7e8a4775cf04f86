package codebase

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher keeps a Codebase in sync with the .java files below its roots.
type Watcher struct {
	codebase *Codebase
	watcher  *fsnotify.Watcher
}

// NewWatcher watches every directory below the roots of c. Directories
// created later are added as they appear.
func NewWatcher(c *Codebase) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{codebase: c, watcher: fw}
	for _, root := range c.Roots() {
		if err := w.addTree(root); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

// Run applies file system events until ctx is done or the watcher is
// closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorf("watch: %s", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	path := event.Name
	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		info, err := os.Stat(path)
		if err != nil {
			return
		}
		if info.IsDir() {
			if err := w.addTree(path); err != nil {
				log.Warningf("watch %s: %s", path, err)
			}
			w.scanTree(path)
			return
		}
		if filepath.Ext(path) != ".java" {
			return
		}
		log.Debugf("rescanning %s", path)
		if err := w.codebase.ScanFile(path); err != nil {
			log.Warningf("rescan %s: %s", path, err)
		}
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		log.Debugf("forgetting %s", path)
		if filepath.Ext(path) == ".java" {
			w.codebase.RemoveFile(path)
			return
		}
		w.codebase.RemoveDir(path)
	}
}

// scanTree picks up files that were created together with their
// directory, before the directory was watched.
func (w *Watcher) scanTree(dir string) {
	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() && filepath.Ext(path) == ".java" {
			w.codebase.ScanFile(path)
		}
		return nil
	})
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
