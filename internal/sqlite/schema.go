package sqlite

// Schema DDL. Statements are idempotent so Attach can run them on every open.
const (
	createRuns = `CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    started_at TEXT NOT NULL,
    finished_at TEXT NOT NULL,
    catalog TEXT NOT NULL
);`

	createFiles = `CREATE TABLE IF NOT EXISTS files (
    run_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    path TEXT NOT NULL,
    status TEXT NOT NULL,
    output TEXT,
    defaults TEXT,
    PRIMARY KEY (run_id, path),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);`

	createDiagnostics = `CREATE TABLE IF NOT EXISTS diagnostics (
    diagnostic_id TEXT PRIMARY KEY,
    run_id TEXT NOT NULL,
    path TEXT NOT NULL,
    seq INTEGER NOT NULL,
    kind TEXT NOT NULL,
    class TEXT NOT NULL,
    preference TEXT,
    template TEXT,
    binding TEXT,
    set_key TEXT,
    identifier TEXT,
    cycle TEXT,
    message TEXT NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);`
)

// Index DDL for common queries.
const (
	idxRunsStarted        = `CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);`
	idxFilesStatus        = `CREATE INDEX IF NOT EXISTS idx_files_status ON files(run_id, status);`
	idxDiagnosticsRunPath = `CREATE INDEX IF NOT EXISTS idx_diagnostics_run_path ON diagnostics(run_id, path);`
	idxDiagnosticsKind    = `CREATE INDEX IF NOT EXISTS idx_diagnostics_kind ON diagnostics(kind);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createRuns,
	createFiles,
	createDiagnostics,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxRunsStarted,
	idxFilesStatus,
	idxDiagnosticsRunPath,
	idxDiagnosticsKind,
}

// schemaStatements returns every DDL statement to run on Attach.
func schemaStatements() []string {
	stmts := make([]string, 0, len(schemaDDL)+len(indexDDL))
	stmts = append(stmts, schemaDDL...)
	return append(stmts, indexDDL...)
}
