// Package build runs the preference engine over every content file of a
// site and writes the pages of the files that pass.
//
// Files are independent: each is read, parsed, evaluated and rendered on its
// own goroutine against the one catalog loaded for the run. A file either
// passes every stage and gets a page, or is skipped with all of its
// diagnostics while the rest of the batch continues.
package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/natefinch/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/swatch/internal/catalog"
	"github.com/mesh-intelligence/swatch/internal/ctxlog"
	"github.com/mesh-intelligence/swatch/internal/frontmatter"
	"github.com/mesh-intelligence/swatch/internal/prefs"
	"github.com/mesh-intelligence/swatch/internal/render"
	"github.com/mesh-intelligence/swatch/pkg/types"
)

// Build errors.
var (
	ErrNoCatalog = errors.New("no option catalog loaded")
)

// Builder runs builds for one site configuration.
type Builder struct {
	cfg     types.Config
	catalog *catalog.Holder
	store   types.ReportStore
	now     func() time.Time
}

// New returns a Builder. store may be nil, in which case runs are not recorded.
func New(cfg types.Config, holder *catalog.Holder, store types.ReportStore) *Builder {
	return &Builder{
		cfg:     cfg,
		catalog: holder,
		store:   store,
		now:     time.Now,
	}
}

// Run builds the site: every discovered file is evaluated, passing files are
// rendered into the output directory, and the run is recorded in the store.
// The returned error covers only failures of the run as a whole; per-file
// failures are reported in the BuildRun.
func (b *Builder) Run(ctx context.Context) (*types.BuildRun, error) {
	run, err := b.process(ctx, nil, true)
	if err != nil {
		return nil, err
	}
	if b.store != nil {
		if err := b.store.RecordRun(run); err != nil {
			return run, fmt.Errorf("record run: %w", err)
		}
	}
	ctxlog.FromContext(ctx).Info("Build finished.",
		"run", run.RunID, "files", len(run.Files), "failed", run.Failed(),
		"elapsed", run.FinishedAt.Sub(run.StartedAt))
	return run, nil
}

// Check evaluates every discovered file without rendering or recording.
func (b *Builder) Check(ctx context.Context) (*types.BuildRun, error) {
	return b.process(ctx, nil, false)
}

// CheckFiles evaluates the given files, relative to the content directory,
// without rendering or recording.
func (b *Builder) CheckFiles(ctx context.Context, files []string) (*types.BuildRun, error) {
	if len(files) == 0 {
		return b.Check(ctx)
	}
	return b.process(ctx, files, false)
}

// process evaluates files, or every discovered file when files is nil.
func (b *Builder) process(ctx context.Context, files []string, write bool) (*types.BuildRun, error) {
	if err := b.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cat := b.catalog.Load()
	if cat == nil {
		return nil, ErrNoCatalog
	}
	logger := ctxlog.FromContext(ctx)

	run := &types.BuildRun{StartedAt: b.now(), CatalogPath: b.cfg.CatalogPath}
	if files == nil {
		found, err := b.Discover()
		if err != nil {
			return nil, err
		}
		files = found
		logger.Debug("Build: discovered content files.", "count", len(files), "include", b.cfg.Include)
	}

	engine := prefs.NewEngine(cat)
	results := make([]types.FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Workers)
	for i, rel := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = b.processFile(gctx, engine, rel, write)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	run.Files = results
	run.FinishedAt = b.now()
	return run, nil
}

// Discover returns the content files matching the include pattern, relative
// to the content directory, in lexical order.
func (b *Builder) Discover() ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(b.cfg.ContentDir), b.cfg.Include, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("discover %s in %s: %w", b.cfg.Include, b.cfg.ContentDir, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// Evaluate reads and evaluates one content file given relative to the
// content directory.
func (b *Builder) Evaluate(ctx context.Context, rel string) (*frontmatter.Document, *prefs.Result, error) {
	cat := b.catalog.Load()
	if cat == nil {
		return nil, nil, ErrNoCatalog
	}
	doc, _, err := b.readDocument(rel)
	if err != nil {
		return nil, nil, err
	}
	res, err := prefs.NewEngine(cat).Evaluate(ctx, doc.Declaration)
	if err != nil {
		return doc, nil, err
	}
	return doc, res, nil
}

func (b *Builder) processFile(ctx context.Context, engine *prefs.Engine, rel string, write bool) types.FileResult {
	logger := ctxlog.FromContext(ctx).With("file", rel)
	result := types.FileResult{Path: rel, Status: types.FileStatusFailed}
	fail := func(err error, kind string) types.FileResult {
		result.Diagnostics = diagnostics(rel, err, kind)
		if prefs.IsInternal(err) {
			logger.Error("Build: internal engine failure; file skipped.", "error", err)
		} else {
			logger.Warn("Build: file skipped.", "diagnostics", len(result.Diagnostics))
		}
		return result
	}

	doc, kind, err := b.readDocument(rel)
	if err != nil {
		return fail(err, kind)
	}
	res, err := engine.Evaluate(ctx, doc.Declaration)
	if err != nil {
		return fail(err, KindEngineError)
	}

	if write {
		page, err := render.Bytes(render.NewPage(doc, res, engine.Catalog()))
		if err != nil {
			return fail(err, KindRenderError)
		}
		out := b.OutputPath(rel)
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return fail(err, KindWriteError)
		}
		if err := atomic.WriteFile(out, bytes.NewReader(page)); err != nil {
			return fail(err, KindWriteError)
		}
		result.Output = out
	}

	result.Status = types.FileStatusOK
	result.Defaults = res.Defaults
	logger.Debug("Build: file processed.", "preferences", res.Graph.Len(), "combinations", res.Combinations)
	return result
}

// readDocument reads and parses one content file. On error, kind names the
// stage that failed.
func (b *Builder) readDocument(rel string) (*frontmatter.Document, string, error) {
	data, err := os.ReadFile(filepath.Join(b.cfg.ContentDir, filepath.FromSlash(rel)))
	if err != nil {
		return nil, KindReadError, err
	}
	doc, err := frontmatter.Parse(rel, data)
	if err != nil {
		return nil, KindFrontmatterError, err
	}
	return doc, "", nil
}

// OutputPath maps a content file to its page in the output directory.
func (b *Builder) OutputPath(rel string) string {
	ext := path.Ext(rel)
	return filepath.Join(b.cfg.OutputDir, filepath.FromSlash(strings.TrimSuffix(rel, ext)+".html"))
}
