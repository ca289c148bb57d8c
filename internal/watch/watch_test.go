package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/swatch/internal/build"
	"github.com/mesh-intelligence/swatch/internal/catalog"
	"github.com/mesh-intelligence/swatch/internal/ctxlog"
	"github.com/mesh-intelligence/swatch/pkg/types"
)

const watchCatalog = `
color_options:
  - {id: blue, name: Blue, default: true}
`

const watchPage = `---
preferences:
  - {id: color, options: color_options}
---
`

func site(t *testing.T) types.Config {
	t.Helper()
	root := t.TempDir()
	cfg := types.Config{
		ContentDir:  filepath.Join(root, "content"),
		OutputDir:   filepath.Join(root, "public"),
		CatalogPath: filepath.Join(root, "options.yaml"),
		Include:     "**/*.md",
		Workers:     1,
	}
	require.NoError(t, os.MkdirAll(cfg.ContentDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.ContentDir, "a.md"), []byte(watchPage), 0o644))
	require.NoError(t, os.WriteFile(cfg.CatalogPath, []byte(watchCatalog), 0o644))
	return cfg
}

func TestDebouncer(t *testing.T) {
	var mu sync.Mutex
	var got [][]string
	d := NewDebouncer(20*time.Millisecond, func(paths []string) {
		mu.Lock()
		got = append(got, paths)
		mu.Unlock()
	})
	defer d.Stop()

	d.Add("b")
	d.Add("a")
	d.Add("b")

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	assert.Equal(t, []string{"a", "b"}, got[0])
	mu.Unlock()
}

func TestDebouncer_Stop(t *testing.T) {
	called := make(chan struct{}, 1)
	d := NewDebouncer(10*time.Millisecond, func([]string) { called <- struct{}{} })
	d.Add("a")
	d.Stop()
	d.Add("b")

	select {
	case <-called:
		t.Fatal("flush after Stop")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestClassify(t *testing.T) {
	cfg := site(t)
	w := New(cfg, nil, nil)

	c := w.Classify([]string{
		cfg.CatalogPath,
		filepath.Join(cfg.ContentDir, "a.md"),
		filepath.Join(cfg.ContentDir, "guides", "b.md"),
		filepath.Join(cfg.ContentDir, "notes.txt"),
		filepath.Join(filepath.Dir(cfg.ContentDir), "other.md"),
	})
	assert.True(t, c.Catalog)
	assert.Equal(t, []string{"a.md", "guides/b.md"}, c.Content)
	assert.False(t, c.Empty())

	assert.True(t, w.Classify([]string{filepath.Join(cfg.ContentDir, "x.txt")}).Empty())
}

func TestApply_BadCatalogKeepsPrevious(t *testing.T) {
	cfg := site(t)
	cat, err := catalog.Load(cfg.CatalogPath)
	require.NoError(t, err)
	holder := catalog.NewHolder(cat)

	var runs int
	w := New(cfg, holder, build.New(cfg, holder, nil))
	w.OnBuild = func(*types.BuildRun) { runs++ }

	require.NoError(t, os.WriteFile(cfg.CatalogPath, []byte("color_options: [\n"), 0o644))
	w.apply(ctxlog.WithLogger(context.Background(), ctxlog.Discard()), Change{Catalog: true})

	assert.Same(t, cat, holder.Load())
	assert.Zero(t, runs)
}

func TestRun_RebuildsOnChange(t *testing.T) {
	cfg := site(t)
	cat, err := catalog.Load(cfg.CatalogPath)
	require.NoError(t, err)
	holder := catalog.NewHolder(cat)

	runs := make(chan *types.BuildRun, 8)
	w := New(cfg, holder, build.New(cfg, holder, nil))
	w.SetDebounce(20 * time.Millisecond)
	w.OnBuild = func(r *types.BuildRun) { runs <- r }

	ctx, cancel := context.WithCancel(ctxlog.WithLogger(context.Background(), ctxlog.Discard()))
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	first := <-runs
	require.Len(t, first.Files, 1)

	require.NoError(t, os.WriteFile(filepath.Join(cfg.ContentDir, "b.md"), []byte(watchPage), 0o644))

	select {
	case r := <-runs:
		assert.Len(t, r.Files, 2)
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after content change")
	}

	assert.ErrorIs(t, w.Run(ctx), ErrAlreadyRunning)

	cancel()
	require.NoError(t, <-done)
}
