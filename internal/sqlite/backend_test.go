// Tests for the SQLite report store.
package sqlite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/swatch/pkg/types"
)

func attach(t *testing.T, dir string) *Backend {
	t.Helper()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{DataDir: dir}))
	t.Cleanup(func() { b.Detach() })
	return b
}

func sampleRun(started time.Time) *types.BuildRun {
	return &types.BuildRun{
		StartedAt:   started,
		FinishedAt:  started.Add(time.Second),
		CatalogPath: "options.yaml",
		Files: []types.FileResult{
			{
				Path:     "paint.md",
				Status:   types.FileStatusOK,
				Output:   "public/paint.html",
				Defaults: map[string]string{"color": "blue", "paint": "elegant_royal"},
			},
			{
				Path:   "broken.md",
				Status: types.FileStatusFailed,
				Diagnostics: []types.Diagnostic{
					{
						Path:       "broken.md",
						Kind:       "MissingOptionSet",
						Class:      "validation",
						Preference: "paint",
						Template:   "<FINISH>_<COLOR>_paint_options",
						Binding:    []types.Assignment{{Preference: "finish", Option: "matte"}, {Preference: "color", Option: "green"}},
						Key:        "matte_green_paint_options",
						Message:    "missing",
					},
					{
						Path:    "broken.md",
						Kind:    "CyclicPreferenceDependency",
						Class:   "cycle",
						Cycle:   []string{"a", "b"},
						Message: "cycle",
					},
				},
			},
		},
	}
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	config := types.Config{DataDir: tmpDir}
	require.NoError(t, b.Attach(config))

	_, err := os.Stat(filepath.Join(tmpDir, DBFileName))
	assert.NoError(t, err, "database file should exist")

	assert.ErrorIs(t, b.Attach(config), types.ErrAlreadyAttached)
	assert.Equal(t, tmpDir, b.DataDir())
	require.NoError(t, b.Detach())
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{DataDir: t.TempDir()}))

	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach(), "second Detach should not error")

	_, err := b.LatestRun()
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	assert.ErrorIs(t, b.RecordRun(&types.BuildRun{}), types.ErrStoreDetached)
	_, err = b.GetRun("x")
	assert.ErrorIs(t, err, types.ErrStoreDetached)
}

func TestBackend_RecordAndGetRun(t *testing.T) {
	b := attach(t, t.TempDir())
	started := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

	run := sampleRun(started)
	require.NoError(t, b.RecordRun(run))
	require.NotEmpty(t, run.RunID, "RecordRun assigns an id")

	got, err := b.GetRun(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, run.RunID, got.RunID)
	assert.True(t, got.StartedAt.Equal(started))
	assert.Equal(t, "options.yaml", got.CatalogPath)
	require.Len(t, got.Files, 2)

	assert.Equal(t, run.Files[0].Defaults, got.Files[0].Defaults)
	assert.Equal(t, "public/paint.html", got.Files[0].Output)
	assert.Empty(t, got.Files[0].Diagnostics)

	assert.True(t, got.Files[1].Failed())
	assert.Equal(t, run.Files[1].Diagnostics, got.Files[1].Diagnostics)
	assert.Equal(t, 1, got.Failed())
}

func TestBackend_LatestRun(t *testing.T) {
	b := attach(t, t.TempDir())

	_, err := b.LatestRun()
	assert.ErrorIs(t, err, types.ErrRunNotFound)

	base := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	older := sampleRun(base)
	newer := sampleRun(base.Add(500 * time.Millisecond))
	require.NoError(t, b.RecordRun(newer))
	require.NoError(t, b.RecordRun(older))

	got, err := b.LatestRun()
	require.NoError(t, err)
	assert.Equal(t, newer.RunID, got.RunID)

	_, err = b.GetRun("does-not-exist")
	assert.ErrorIs(t, err, types.ErrRunNotFound)
}

func TestBackend_PersistsAcrossAttach(t *testing.T) {
	dir := t.TempDir()

	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{DataDir: dir}))
	run := sampleRun(time.Now())
	require.NoError(t, b.RecordRun(run))
	require.NoError(t, b.Detach())

	b2 := attach(t, dir)
	got, err := b2.LatestRun()
	require.NoError(t, err)
	assert.Equal(t, run.RunID, got.RunID)
}
