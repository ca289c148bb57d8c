package types

import (
	"errors"
	"time"
)

// File outcomes.
const (
	FileStatusOK     = "ok"
	FileStatusFailed = "failed"
)

// Assignment is one entry of an ordered binding.
type Assignment struct {
	Preference string `json:"preference"`
	Option     string `json:"option"`
}

// Diagnostic is the stored form of one engine, parse or I/O error.
type Diagnostic struct {
	Path       string       `json:"path"`
	Kind       string       `json:"kind"`
	Class      string       `json:"class"`
	Preference string       `json:"preference,omitempty"`
	Template   string       `json:"template,omitempty"`
	Binding    []Assignment `json:"binding,omitempty"`
	Key        string       `json:"key,omitempty"`
	Identifier string       `json:"identifier,omitempty"`
	Cycle      []string     `json:"cycle,omitempty"`
	Message    string       `json:"message"`
}

// FileResult is the outcome of processing one content file.
type FileResult struct {
	Path        string            `json:"path"`
	Status      string            `json:"status"`
	Output      string            `json:"output,omitempty"`
	Defaults    map[string]string `json:"defaults,omitempty"`
	Diagnostics []Diagnostic      `json:"diagnostics,omitempty"`
}

// Failed reports whether the file was skipped.
func (f FileResult) Failed() bool {
	return f.Status == FileStatusFailed
}

// BuildRun is one recorded build.
type BuildRun struct {
	RunID       string       `json:"run_id"` // UUID v7, generated when recorded.
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  time.Time    `json:"finished_at"`
	CatalogPath string       `json:"catalog"`
	Files       []FileResult `json:"files"`
}

// Failed returns the number of skipped files.
func (r *BuildRun) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Failed() {
			n++
		}
	}
	return n
}

// Diagnostics returns every diagnostic of the run in file order.
func (r *BuildRun) Diagnostics() []Diagnostic {
	var out []Diagnostic
	for _, f := range r.Files {
		out = append(out, f.Diagnostics...)
	}
	return out
}

// ReportStore persists build runs.
type ReportStore interface {
	// Attach opens the store in config.DataDir, creating it if needed.
	// Returns ErrAlreadyAttached if called while attached.
	Attach(config Config) error

	// Detach releases resources. Idempotent.
	Detach() error

	// RecordRun stores run and its files. An empty RunID is replaced by a
	// new UUID v7, which is written back into run.
	RecordRun(run *BuildRun) error

	// GetRun returns the run with the given id, or ErrRunNotFound.
	GetRun(id string) (*BuildRun, error)

	// LatestRun returns the most recently started run, or ErrRunNotFound.
	LatestRun() (*BuildRun, error)
}

// Report store errors.
var (
	ErrStoreDetached   = errors.New("report store is detached")
	ErrAlreadyAttached = errors.New("report store is already attached")
	ErrRunNotFound     = errors.New("build run not found")
)
