package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/swatch/pkg/types"
)

// RecordRun stores run, its files and their diagnostics in one transaction.
// An empty RunID is replaced by a new UUID v7 and written back into run.
func (b *Backend) RecordRun(run *types.BuildRun) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	if run.RunID == "" {
		run.RunID = generateUUID()
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO runs (run_id, started_at, finished_at, catalog) VALUES (?, ?, ?, ?)`,
		run.RunID, formatTime(run.StartedAt), formatTime(run.FinishedAt), run.CatalogPath,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, f := range run.Files {
		defaults, err := marshalNullable(f.Defaults, len(f.Defaults) == 0)
		if err != nil {
			return fmt.Errorf("encode defaults for %s: %w", f.Path, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO files (run_id, seq, path, status, output, defaults) VALUES (?, ?, ?, ?, ?, ?)`,
			run.RunID, i, f.Path, f.Status, nullString(f.Output), defaults,
		); err != nil {
			return fmt.Errorf("insert file %s: %w", f.Path, err)
		}
		for j, d := range f.Diagnostics {
			if err := insertDiagnostic(tx, run.RunID, f.Path, j, d); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func insertDiagnostic(tx *sql.Tx, runID, path string, seq int, d types.Diagnostic) error {
	binding, err := marshalNullable(d.Binding, len(d.Binding) == 0)
	if err != nil {
		return fmt.Errorf("encode binding: %w", err)
	}
	cycle, err := marshalNullable(d.Cycle, len(d.Cycle) == 0)
	if err != nil {
		return fmt.Errorf("encode cycle: %w", err)
	}
	_, err = tx.Exec(
		`INSERT INTO diagnostics (diagnostic_id, run_id, path, seq, kind, class, preference, template, binding, set_key, identifier, cycle, message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		generateUUID(), runID, path, seq, d.Kind, d.Class,
		nullString(d.Preference), nullString(d.Template), binding,
		nullString(d.Key), nullString(d.Identifier), cycle, d.Message,
	)
	if err != nil {
		return fmt.Errorf("insert diagnostic for %s: %w", path, err)
	}
	return nil
}

// GetRun returns the run with the given id.
// Returns ErrRunNotFound if no such run exists.
func (b *Backend) GetRun(id string) (*types.BuildRun, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.loadRun(b.db.QueryRow(
		`SELECT run_id, started_at, finished_at, catalog FROM runs WHERE run_id = ?`, id))
}

// LatestRun returns the most recently started run.
// Returns ErrRunNotFound if the store is empty.
func (b *Backend) LatestRun() (*types.BuildRun, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.loadRun(b.db.QueryRow(
		`SELECT run_id, started_at, finished_at, catalog FROM runs ORDER BY started_at DESC, run_id DESC LIMIT 1`))
}

// loadRun scans a runs row and loads its files and diagnostics.
// The caller must hold b.mu.
func (b *Backend) loadRun(row *sql.Row) (*types.BuildRun, error) {
	var (
		run               types.BuildRun
		started, finished string
	)
	if err := row.Scan(&run.RunID, &started, &finished, &run.CatalogPath); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrRunNotFound
		}
		return nil, err
	}
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished)

	files, err := b.loadFiles(run.RunID)
	if err != nil {
		return nil, err
	}
	run.Files = files
	return &run, nil
}

func (b *Backend) loadFiles(runID string) ([]types.FileResult, error) {
	rows, err := b.db.Query(
		`SELECT path, status, output, defaults FROM files WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	defer rows.Close()

	var files []types.FileResult
	index := make(map[string]int)
	for rows.Next() {
		var (
			f        types.FileResult
			output   sql.NullString
			defaults sql.NullString
		)
		if err := rows.Scan(&f.Path, &f.Status, &output, &defaults); err != nil {
			return nil, err
		}
		f.Output = output.String
		if defaults.Valid {
			if err := json.Unmarshal([]byte(defaults.String), &f.Defaults); err != nil {
				return nil, fmt.Errorf("decode defaults for %s: %w", f.Path, err)
			}
		}
		index[f.Path] = len(files)
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	diags, err := b.loadDiagnostics(runID)
	if err != nil {
		return nil, err
	}
	for _, d := range diags {
		if i, ok := index[d.Path]; ok {
			files[i].Diagnostics = append(files[i].Diagnostics, d)
		}
	}
	return files, nil
}

func (b *Backend) loadDiagnostics(runID string) ([]types.Diagnostic, error) {
	rows, err := b.db.Query(
		`SELECT path, kind, class, preference, template, binding, set_key, identifier, cycle, message
		 FROM diagnostics WHERE run_id = ? ORDER BY path, seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query diagnostics: %w", err)
	}
	defer rows.Close()

	var out []types.Diagnostic
	for rows.Next() {
		var (
			d                                      types.Diagnostic
			pref, tmpl, binding, key, ident, cycle sql.NullString
		)
		if err := rows.Scan(&d.Path, &d.Kind, &d.Class, &pref, &tmpl, &binding, &key, &ident, &cycle, &d.Message); err != nil {
			return nil, err
		}
		d.Preference = pref.String
		d.Template = tmpl.String
		d.Key = key.String
		d.Identifier = ident.String
		if binding.Valid {
			if err := json.Unmarshal([]byte(binding.String), &d.Binding); err != nil {
				return nil, fmt.Errorf("decode binding: %w", err)
			}
		}
		if cycle.Valid {
			if err := json.Unmarshal([]byte(cycle.String), &d.Cycle); err != nil {
				return nil, fmt.Errorf("decode cycle: %w", err)
			}
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// timeLayout has fixed-width fractions so stored times sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func marshalNullable(v any, empty bool) (sql.NullString, error) {
	if empty {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
