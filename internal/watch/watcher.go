// SPDX-License-Identifier: MPL-2.0

// Package watch reports which managed game modules changed on disk.
//
// A Watcher monitors the game source folder, coalesces bursts of filesystem
// events for a debounce period and then calls OnChange once with the names
// of the modules (immediate subfolders of the source folder) that were
// touched.
package watch

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/unrealclr/hotcompiler/internal/report"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

var (
	// ErrAlreadyStarted is returned by a second call to Run.
	ErrAlreadyStarted = errors.New("watch: Run called more than once")

	// defaultPatterns select the files a module build depends on.
	defaultPatterns = []string{"**/*.cs", "**/*.csproj", "**/*.props", "**/*.targets"}

	// defaultIgnores cover build output, IDE state and editor swap files.
	// Publishing writes into bin and obj, so watching them would loop.
	defaultIgnores = []string{
		"**/bin/**",
		"**/obj/**",
		"**/.vs/**",
		"**/.idea/**",
		"**/.git/**",
		"**/*.swp",
		"**/*~",
		"**/.DS_Store",
	}
)

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// SourceDir is the game source folder; each subfolder is a module.
		SourceDir string
		// Patterns are doublestar globs relative to SourceDir. Empty selects
		// C# sources and MSBuild project files.
		Patterns []string
		// Ignore patterns are added to the built-in ignores.
		Ignore []string
		// Debounce is the quiet period before OnChange fires. Zero or
		// negative values select 500ms.
		Debounce time.Duration
		// OnChange receives the sorted names of the changed modules.
		OnChange func(ctx context.Context, modules []string) error
		Reporter *report.Reporter
	}

	// Watcher monitors a source folder. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		patterns []string
		ignores  []string
		debounce time.Duration
		baseDir  string
		log      *report.Reporter
		started  atomic.Bool
	}
)

// New creates a Watcher and registers every non-ignored folder under
// SourceDir.
func New(cfg Config) (*Watcher, error) {
	if cfg.SourceDir == "" {
		return nil, errors.New("watch: source folder is required")
	}
	absBase, err := filepath.Abs(cfg.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve source folder: %w", err)
	}
	if info, statErr := os.Stat(absBase); statErr != nil || !info.IsDir() {
		return nil, fmt.Errorf("watch: source folder %q is not a directory", absBase)
	}

	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = defaultPatterns
	}
	if err := validatePatterns(patterns, "watch"); err != nil {
		return nil, err
	}
	if err := validatePatterns(cfg.Ignore, "ignore"); err != nil {
		return nil, err
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	log := cfg.Reporter
	if log == nil {
		log = report.New(nil)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		patterns: patterns,
		ignores:  slices.Concat(defaultIgnores, cfg.Ignore),
		debounce: debounce,
		baseDir:  absBase,
		log:      log,
	}
	if err := w.addDirectories(); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run blocks until ctx is cancelled, dispatching debounced callbacks. It
// returns nil on cancellation and an error when the watcher breaks.
//
// Callbacks never overlap: events that arrive while OnChange runs are kept
// and delivered once it returns.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.log.Debug("Build still running, postponing changes")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		modules := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.OnChange == nil {
			return
		}
		if err := w.cfg.OnChange(ctx, modules); err != nil {
			w.log.Warn("Rebuild failed", "modules", strings.Join(modules, ","), "error", err)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.log.Debug("Closing the watcher failed", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed unexpectedly")
			}
			rel, err := filepath.Rel(w.baseDir, evt.Name)
			if err != nil || w.isIgnored(rel) {
				continue
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name, rel)
			}
			module := ModuleOf(rel)
			if module == "" || !w.matchesPatterns(rel) {
				continue
			}
			w.log.Debug("Source changed", "file", filepath.ToSlash(rel), "op", evt.Op.String())

			mu.Lock()
			pending[module] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.log.Warn("File watcher error", "error", err)
		}
	}
}

// ModuleOf returns the module a path relative to the source folder belongs
// to, or "" for files directly in the source folder.
func ModuleOf(rel string) string {
	rel = filepath.ToSlash(filepath.Clean(rel))
	module, rest, found := strings.Cut(rel, "/")
	if !found || rest == "" || module == "." || module == ".." {
		return ""
	}
	return module
}

func (w *Watcher) addDirectories() error {
	err := filepath.WalkDir(w.baseDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			w.log.Warn("Skipping unreadable folder", "folder", path, "error", walkErr)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(w.baseDir, path)
		if relErr != nil {
			return nil
		}
		if rel != "." && w.isIgnored(rel+"/") {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add folder %q: %w", path, addErr)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch: walk source folder: %w", err)
	}
	return nil
}

// maybeAddDir extends the watch to folders created after startup.
func (w *Watcher) maybeAddDir(path, rel string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || w.isIgnored(rel+"/") {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.log.Warn("Could not watch new folder", "folder", path, "error", err)
	}
}

func (w *Watcher) isIgnored(rel string) bool {
	return matchAny(w.ignores, rel)
}

func (w *Watcher) matchesPatterns(rel string) bool {
	return matchAny(w.patterns, rel)
}

func matchAny(patterns []string, rel string) bool {
	normalized := filepath.ToSlash(rel)
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, normalized); err == nil && matched {
			return true
		}
	}
	return false
}

// DefaultPatterns returns a copy of the built-in watch patterns.
func DefaultPatterns() []string { return slices.Clone(defaultPatterns) }

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string { return slices.Clone(defaultIgnores) }

func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if pat == "" || !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q", label, pat)
		}
	}
	return nil
}
