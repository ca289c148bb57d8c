// Package watch rebuilds a site whenever its content files or its option
// catalog change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/mesh-intelligence/swatch/internal/build"
	"github.com/mesh-intelligence/swatch/internal/catalog"
	"github.com/mesh-intelligence/swatch/internal/ctxlog"
	"github.com/mesh-intelligence/swatch/pkg/types"
)

// DefaultDebounce is the quiet window before a batch of changes triggers a
// rebuild.
const DefaultDebounce = 200 * time.Millisecond

// Watcher errors.
var (
	ErrAlreadyRunning = errors.New("watcher already running")
)

// Watcher ties filesystem notifications to catalog reloads and rebuilds.
type Watcher struct {
	cfg      types.Config
	holder   *catalog.Holder
	builder  *build.Builder
	debounce time.Duration

	// OnBuild, when set, receives every completed run. Used by callers that
	// report runs as they happen.
	OnBuild func(*types.BuildRun)

	mu      sync.Mutex
	running bool
	rebuild sync.Mutex
}

// New returns a Watcher for the site described by cfg.
func New(cfg types.Config, holder *catalog.Holder, builder *build.Builder) *Watcher {
	return &Watcher{
		cfg:      cfg,
		holder:   holder,
		builder:  builder,
		debounce: DefaultDebounce,
	}
}

// SetDebounce changes the quiet window. It must be called before Run.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Change classifies a batch of changed paths.
type Change struct {
	Catalog bool     // the catalog file changed
	Content []string // changed content files, relative to the content dir
}

// Empty reports whether the batch touches nothing the site depends on.
func (c Change) Empty() bool {
	return !c.Catalog && len(c.Content) == 0
}

// Classify sorts absolute or cwd-relative paths into catalog and content
// changes. Paths matching neither are dropped.
func (w *Watcher) Classify(paths []string) Change {
	var c Change
	catalogPath := filepath.Clean(w.cfg.CatalogPath)
	for _, p := range paths {
		p = filepath.Clean(p)
		if p == catalogPath {
			c.Catalog = true
			continue
		}
		rel, err := filepath.Rel(w.cfg.ContentDir, p)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		rel = filepath.ToSlash(rel)
		if ok, _ := doublestar.Match(w.cfg.Include, rel); ok {
			c.Content = append(c.Content, rel)
		}
	}
	return c
}

// Run builds once, then rebuilds on every relevant batch of changes until ctx
// is done. A catalog change reloads the catalog first; if the new catalog is
// invalid the previous one stays in use and no rebuild happens.
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return ErrAlreadyRunning
	}
	w.running = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	logger := ctxlog.FromContext(ctx)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addTree(fsw, w.cfg.ContentDir); err != nil {
		return err
	}
	// Editors often replace files by rename, so the catalog's directory is
	// watched rather than the file itself.
	if err := fsw.Add(filepath.Dir(w.cfg.CatalogPath)); err != nil {
		return fmt.Errorf("watch catalog dir: %w", err)
	}

	batches := make(chan []string, 1)
	stopped := make(chan struct{})
	defer close(stopped)
	deb := NewDebouncer(w.debounce, func(paths []string) {
		select {
		case batches <- paths:
		case <-stopped:
		}
	})
	defer deb.Stop()

	w.build(ctx)
	logger.Info("Watching for changes.", "content", w.cfg.ContentDir, "catalog", w.cfg.CatalogPath)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if err := w.addTree(fsw, ev.Name); err != nil {
					logger.Debug("Watch: could not follow new directory.", "path", ev.Name, "error", err)
				}
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			deb.Add(ev.Name)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch: notification error.", "error", err)

		case paths := <-batches:
			w.apply(ctx, w.Classify(paths))
		}
	}
}

func (w *Watcher) apply(ctx context.Context, c Change) {
	if c.Empty() {
		return
	}
	logger := ctxlog.FromContext(ctx)
	if c.Catalog {
		if _, err := w.holder.Reload(w.cfg.CatalogPath); err != nil {
			logger.Error("Watch: catalog reload failed; keeping previous catalog.", "error", err)
			return
		}
		logger.Info("Watch: catalog reloaded.", "catalog", w.cfg.CatalogPath)
	}
	if len(c.Content) > 0 {
		logger.Debug("Watch: content changed.", "files", c.Content)
	}
	w.build(ctx)
}

func (w *Watcher) build(ctx context.Context) {
	w.rebuild.Lock()
	defer w.rebuild.Unlock()

	run, err := w.builder.Run(ctx)
	if err != nil {
		ctxlog.FromContext(ctx).Error("Watch: build failed.", "error", err)
		return
	}
	if w.OnBuild != nil {
		w.OnBuild(run)
	}
}

// addTree watches root and every directory below it. A root that is not a
// directory is ignored.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := fsw.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}
