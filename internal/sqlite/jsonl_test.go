package sqlite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportJSONL(t *testing.T) {
	dir := t.TempDir()
	b := attach(t, dir)

	run := sampleRun(time.Now())
	require.NoError(t, b.RecordRun(run))

	path := filepath.Join(dir, "diagnostics.jsonl")
	n, err := b.ExportJSONL(run.RunID, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := ReadJSONL(path)
	require.NoError(t, err)
	assert.Equal(t, run.Diagnostics(), got)
}

func TestReadJSONL_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "d.jsonl")
	content := `{"path":"a.md","kind":"MissingOptionSet","class":"validation","message":"m"}

not json
{"path":"b.md","kind":"DuplicatePreference","class":"declaration","message":"d"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := ReadJSONL(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a.md", got[0].Path)
	assert.Equal(t, "DuplicatePreference", got[1].Kind)
}

func TestReadJSONL_Missing(t *testing.T) {
	_, err := ReadJSONL(filepath.Join(t.TempDir(), "nope.jsonl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
