// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It recursively watches an atlas source tree, filters out editor and OS
// scratch files, and debounces rapid events (editors and image tools often
// trigger several writes per save).
package fsnotify

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Directories to ignore when watching.
var ignoreDirs = map[string]bool{
	".git":       true,
	".svn":       true,
	".atlaspack": true,
	".idea":      true,
	".vscode":    true,
}

// File names/suffixes to ignore.
var ignoreFiles = map[string]bool{
	".DS_Store": true,
	"Thumbs.db": true,
	".swp":      true,
	".swx":      true,
	".tmp":      true,
	"~":         true,
}

// debounceInterval is the minimum gap between two callbacks for one path.
const debounceInterval = 50 * time.Millisecond

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw      *fsnotify.Watcher
	exclude []string
	done    chan struct{}
	stopped bool
	mu      sync.Mutex
}

// NewWatcher creates a new file system watcher. Paths under any of the
// exclude directories never trigger callbacks; the atlas output directory
// goes here when it lives inside the source tree.
func NewWatcher(exclude ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	var abs []string
	for _, e := range exclude {
		if e == "" {
			continue
		}
		if a, err := filepath.Abs(e); err == nil {
			abs = append(abs, a)
		}
	}
	return &Watcher{
		fw:      fw,
		exclude: abs,
		done:    make(chan struct{}),
	}, nil
}

// Watch starts monitoring root recursively.
// onChange is called with the absolute path of each changed file.
func (w *Watcher) Watch(root string, onChange func(filePath string)) error {
	absPath, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	if _, err := os.Stat(absPath); err != nil {
		return err
	}

	// Walk and add all directories
	err = filepath.Walk(absPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if info.IsDir() {
			if path != absPath && (shouldIgnoreDir(info.Name()) || w.excluded(path)) {
				return filepath.SkipDir
			}
			return w.fw.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Debounce state: track last event time per file
	debounce := make(map[string]time.Time)

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				path := event.Name

				// New atlas folders (and their subfolders) join the watch list
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(path); err == nil && info.IsDir() {
						if !shouldIgnoreDir(info.Name()) && !w.excluded(path) {
							w.fw.Add(path)
						}
					}
				}

				if shouldIgnorePath(path) || w.excluded(path) {
					continue
				}

				// Debounce: skip if we've seen this file recently
				now := time.Now()
				if last, seen := debounce[path]; seen && now.Sub(last) < debounceInterval {
					continue
				}
				debounce[path] = now

				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					onChange(path)
				}

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// Errors are swallowed; fsnotify recovers automatically

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}

// excluded reports whether path is one of the exclude directories or inside one.
func (w *Watcher) excluded(path string) bool {
	for _, e := range w.exclude {
		if path == e || strings.HasPrefix(path, e+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// shouldIgnoreDir returns true if the directory name should be skipped.
func shouldIgnoreDir(name string) bool {
	return ignoreDirs[name]
}

// shouldIgnorePath returns true if the file path should not trigger onChange.
func shouldIgnorePath(path string) bool {
	base := filepath.Base(path)

	if ignoreFiles[base] {
		return true
	}
	for suffix := range ignoreFiles {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}

	// Check if any path component is an ignored directory
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if ignoreDirs[part] {
			return true
		}
	}

	return false
}
