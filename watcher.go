package twmanifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/yacobolo/twmanifest/internal/diag"
	"github.com/yacobolo/twmanifest/internal/manifest"
)

// DefaultDebounce batches editor saves into one rebuild.
const DefaultDebounce = 300 * time.Millisecond

var (
	// ErrWatcherRunning is returned by Start on a running watcher.
	ErrWatcherRunning = errors.New("watcher already running")
	// ErrWatcherStopped is returned by Start after Stop.
	ErrWatcherStopped = errors.New("watcher stopped")
)

// WatchConfig configures a Watcher.
type WatchConfig struct {
	Build BuildConfig
	// Paths are extra files or globs that trigger a rebuild. The manifest
	// file and the content globs of Build are always watched.
	Paths    []string
	Debounce time.Duration
	// OnBuild is called after every build, including the initial one.
	OnBuild func(*BuildResult, error)
}

// Watcher rebuilds when the manifest or a content file changes.
type Watcher struct {
	mu       sync.Mutex
	config   WatchConfig
	watcher  *fsnotify.Watcher
	log      *zap.Logger
	triggers []string        // absolute file paths and globs
	outputs  map[string]bool // absolute output paths, never a trigger
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	stopped  bool
	builds   int
}

// NewWatcher creates a watcher for config. Call Start to begin watching.
func NewWatcher(config WatchConfig) (*Watcher, error) {
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	if config.Build.Cache == nil {
		config.Build.Cache = manifest.NewCache()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		config:  config,
		watcher: fw,
		log:     diag.OrNop(config.Build.Logger).Named("watch"),
		outputs: make(map[string]bool),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}

	for _, out := range []string{config.Build.ThemeOutput, config.Build.CSSOutput} {
		if out != "" {
			w.outputs[absPath(out)] = true
		}
	}
	if src, ok := config.Build.Source.(manifest.FileSource); ok && src.Path != "" {
		w.triggers = append(w.triggers, absPath(src.Path))
	}
	for _, p := range append(append([]string(nil), config.Build.Content...), config.Paths...) {
		if strings.HasPrefix(p, "!") {
			continue
		}
		w.triggers = append(w.triggers, absPath(p))
	}
	return w, nil
}

// Start runs the initial build and then watches in the background until
// Stop is called or ctx is done. The initial build error is returned after
// OnBuild has seen it; watching continues so a fixed manifest recovers.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	switch {
	case w.stopped:
		w.mu.Unlock()
		return ErrWatcherStopped
	case w.running:
		w.mu.Unlock()
		return ErrWatcherRunning
	}
	w.running = true
	w.mu.Unlock()

	for _, dir := range w.watchDirs() {
		if err := w.watcher.Add(dir); err != nil {
			w.log.Warn("cannot watch directory", zap.String("dir", dir), zap.Error(err))
			continue
		}
		w.log.Debug("watching", zap.String("dir", dir))
	}

	err := w.rebuild(ctx)
	go w.run(ctx)
	return err
}

// Stop stops the watcher, waits for the event loop to exit and releases
// the underlying fsnotify watcher. It is safe to call more than once and
// on a watcher that was never started.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}

	if err := w.watcher.Close(); err != nil {
		w.log.Error("closing watcher", zap.Error(err))
	}
	w.log.Debug("stopped")
}

// Builds returns how many builds ran, including the initial one.
func (w *Watcher) Builds() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.builds
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.handleEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.config.Debounce)
			} else {
				timer.Reset(w.config.Debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("watch error", zap.Error(err))

		case <-fire:
			fire = nil
			_ = w.rebuild(ctx)
		}
	}
}

// handleEvent reports whether event should schedule a rebuild. New
// directories are added to the watch list.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name := absPath(event.Name)
	if w.outputs[name] {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(name); err == nil && info.IsDir() {
			for _, dir := range walkDirs(name) {
				if err := w.watcher.Add(dir); err == nil {
					w.log.Debug("watching", zap.String("dir", dir))
				}
			}
			return false
		}
	}

	if !w.isTrigger(name) {
		return false
	}
	w.log.Debug("change", zap.String("path", name), zap.Stringer("op", event.Op))
	return true
}

func (w *Watcher) isTrigger(name string) bool {
	for _, t := range w.triggers {
		if t == name {
			return true
		}
		if ok, err := doublestar.PathMatch(t, name); err == nil && ok {
			return true
		}
	}
	return false
}

// watchDirs returns the manifest directory and every directory under the
// static base of each content glob.
func (w *Watcher) watchDirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	add := func(d string) {
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}

	for _, t := range w.triggers {
		base, pattern := doublestar.SplitPattern(filepath.ToSlash(t))
		base = filepath.FromSlash(base)
		if pattern == "" || !hasMeta(pattern) {
			add(filepath.Dir(t))
			continue
		}
		for _, d := range walkDirs(base) {
			add(d)
		}
	}
	return dirs
}

func hasMeta(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

// walkDirs lists root and its subdirectories, skipping VCS and dependency
// directories.
func walkDirs(root string) []string {
	var dirs []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		switch d.Name() {
		case ".git", "node_modules":
			if path != root {
				return filepath.SkipDir
			}
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs
}

func (w *Watcher) rebuild(ctx context.Context) error {
	cfg := w.config.Build
	if cfg.Reporter != nil {
		cfg.Reporter.Reset()
	}

	start := time.Now()
	result, err := Build(ctx, cfg)

	w.mu.Lock()
	w.builds++
	n := w.builds
	w.mu.Unlock()

	if err != nil {
		w.log.Warn("build failed", zap.Int("build", n), zap.Error(err))
	} else {
		w.log.Info("rebuilt", zap.Int("build", n), zap.Duration("took", time.Since(start)))
	}
	if w.config.OnBuild != nil {
		w.config.OnBuild(result, err)
	}
	return err
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
