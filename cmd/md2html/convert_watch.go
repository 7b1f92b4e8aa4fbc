package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/alnah/go-md2html/internal/fileutil"
)

// watchDebounce coalesces the burst of events editors emit per save.
const watchDebounce = 100 * time.Millisecond

// watchTarget describes which paths under root trigger a conversion.
type watchTarget struct {
	root    string // Directory registered with the watcher
	baseDir string // Directory mirrored under the output dir ("" for a single file)
	pattern string // Slash-separated glob relative to root
	single  string // Exact file to watch, set for single file inputs
}

// newWatchTarget derives the watch target from a convert input.
func newWatchTarget(inputPath string, opts discoverOptions) (watchTarget, error) {
	info, err := os.Stat(inputPath)
	switch {
	case err == nil && info.IsDir():
		return watchTarget{root: inputPath, baseDir: inputPath, pattern: opts.pattern}, nil
	case err == nil:
		return watchTarget{root: filepath.Dir(inputPath), single: filepath.Clean(inputPath)}, nil
	case hasGlobMeta(inputPath):
		base, rest := doublestar.SplitPattern(filepath.ToSlash(inputPath))
		dir := filepath.FromSlash(base)
		return watchTarget{root: dir, baseDir: dir, pattern: rest}, nil
	default:
		return watchTarget{}, err
	}
}

// matches reports whether path should be converted.
func (t watchTarget) matches(path string) bool {
	if t.single != "" {
		return filepath.Clean(path) == t.single
	}
	if !fileutil.IsMarkdownFile(path) {
		return false
	}
	rel, err := filepath.Rel(t.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	ok, _ := doublestar.Match(t.pattern, filepath.ToSlash(rel))
	return ok
}

// watcher converts markdown files again when they change.
type watcher struct {
	fsw    *fsnotify.Watcher
	target watchTarget
	opts   discoverOptions
	delay  time.Duration
}

// newWatcher registers the input's directory tree with fsnotify.
// Events are only delivered once newWatcher returns.
func newWatcher(inputPath string, opts discoverOptions) (*watcher, error) {
	target, err := newWatchTarget(inputPath, opts)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &watcher{fsw: fsw, target: target, opts: opts, delay: watchDebounce}
	if target.single != "" {
		err = fsw.Add(target.root)
	} else {
		err = w.addRecursive(target.root)
	}
	if err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// addRecursive watches dir and every non-hidden directory below it.
func (w *watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// Close releases the underlying watcher.
func (w *watcher) Close() error {
	return w.fsw.Close()
}

// run processes filesystem events until ctx is done.
func (w *watcher) run(ctx context.Context, conv StreamConverter, common commonFlags, env *Environment) error {
	ready := make(chan string)
	deb := newDebouncer(w.delay)
	defer deb.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			env.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())
			w.handleEvent(ctx, event, deb, ready, env)

		case path := <-ready:
			f := FileToConvert{
				InputPath:  path,
				OutputPath: resolveOutputPath(path, w.target.baseDir, w.opts),
			}
			result := convertFile(ctx, conv, f)
			printResultsWithWriter([]ConversionResult{result}, common.quiet, common.verbose, env)

		case wErr, ok := <-w.fsw.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			env.Logger.Error("fsnotify error", "error", wErr)
		}
	}
}

// handleEvent filters an event and schedules the conversion.
func (w *watcher) handleEvent(ctx context.Context, event fsnotify.Event, deb *debouncer, ready chan<- string, env *Environment) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	if event.Has(fsnotify.Create) && w.target.single == "" {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				env.Logger.Warn("cannot watch new directory", "path", event.Name, "error", err)
			}
			return
		}
	}

	if !w.target.matches(event.Name) {
		return
	}

	path := event.Name
	deb.add(path, func() {
		select {
		case ready <- path:
		case <-ctx.Done():
		}
	})
}

// watchAndConvert blocks until ctx is done, converting changed files.
func watchAndConvert(ctx context.Context, inputPath string, opts discoverOptions, conv StreamConverter, common commonFlags, env *Environment) error {
	w, err := newWatcher(inputPath, opts)
	if err != nil {
		return err
	}
	defer w.Close()

	env.Logger.Info("watching for changes", "path", w.target.root)
	if !common.quiet {
		fmt.Fprintf(env.Stderr, "Watching %s (Ctrl+C to stop)\n", inputPath)
	}
	return w.run(ctx, conv, common, env)
}

// debouncer runs the last function added for a key once the key has been
// quiet for delay.
type debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timers  map[string]*time.Timer
	stopped bool
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, timers: make(map[string]*time.Timer)}
}

func (d *debouncer) add(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.timers[key] == t {
			delete(d.timers, key)
		}
		d.mu.Unlock()
		fn()
	})
	d.timers[key] = t
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}
