package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Default quiet period before a batch is delivered.
const DefaultDebounce = 100 * time.Millisecond

// Directory names never watched.
var ignoreDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	".idea":        true,
	".vscode":      true,
}

// File name suffixes that never trigger a rebuild.
var ignoreSuffixes = []string{
	".swp",
	".swx",
	"~",
	".DS_Store",
	".tmp",
}

// Configures a [Watcher].
type Option func(*Watcher)

// Sets the quiet period before a batch is delivered.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// Excludes the given absolute paths and everything below them.
func WithIgnore(paths ...string) Option {
	return func(w *Watcher) {
		for _, p := range paths {
			if p != "" {
				w.ignored = append(w.ignored, filepath.Clean(p))
			}
		}
	}
}

// Excludes files the build itself writes inside the watched tree, such as
// a metrics or cache file. Each path also covers sibling files whose name
// starts with its base name, so temporary files renamed into place are
// ignored too.
func WithIgnoreFiles(paths ...string) Option {
	return func(w *Watcher) {
		for _, p := range paths {
			if p != "" {
				w.ignoredFiles = append(w.ignoredFiles, filepath.Clean(p))
			}
		}
	}
}

// Recursive, debounced file watcher.
type Watcher struct {
	fw           *fsnotify.Watcher
	root         string
	debounce     time.Duration
	ignored      []string
	ignoredFiles []string

	mu     sync.Mutex
	closed bool
}

// Creates a watcher for every directory below root.
func New(root string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fw:       fw,
		root:     abs,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.addTree(abs); err != nil {
		fw.Close()
		return nil, err
	}

	return w, nil
}

// Delivers batches of changed paths to onChange until ctx is done or the
// watcher is closed.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, changed []string)) error {
	pending := make(map[string]bool)

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if !w.handle(event) {
				continue
			}
			pending[event.Name] = true
			timer.Reset(w.debounce)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("file watcher error", "error", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)

			slog.Debug("files changed", "count", len(changed))
			onChange(ctx, changed)
		}
	}
}

// Stops watching and releases all resources. Safe to call multiple times.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.fw.Close()
}

// Follows new directories and reports whether the event is relevant.
func (w *Watcher) handle(event fsnotify.Event) bool {
	if w.ignore(event.Name) {
		return false
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				slog.Warn("failed to watch directory", "path", event.Name, "error", err)
			}
		}
	}

	return true
}

// Registers dir and every directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Vanished or unreadable paths are skipped.
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.ignore(path) {
			return filepath.SkipDir
		}
		return w.fw.Add(path)
	})
}

// Reports whether path lies in an ignored directory or is editor noise.
func (w *Watcher) ignore(path string) bool {
	path = filepath.Clean(path)

	for _, p := range w.ignored {
		if path == p || strings.HasPrefix(path, p+string(filepath.Separator)) {
			return true
		}
	}

	dir, base := filepath.Split(path)
	for _, f := range w.ignoredFiles {
		fdir, fbase := filepath.Split(f)
		if dir == fdir && strings.HasPrefix(base, fbase) {
			return true
		}
	}

	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if ignoreDirs[part] {
			return true
		}
	}

	base = filepath.Base(path)
	for _, suffix := range ignoreSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}
