package sqlite

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/natefinch/atomic"

	"github.com/mesh-intelligence/swatch/pkg/types"
)

// ExportJSONL writes every diagnostic of the run to path, one JSON object
// per line. The file is replaced atomically.
func (b *Backend) ExportJSONL(runID, path string) (int, error) {
	run, err := b.GetRun(runID)
	if err != nil {
		return 0, err
	}
	diags := run.Diagnostics()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, d := range diags {
		if err := enc.Encode(d); err != nil {
			return 0, fmt.Errorf("encoding diagnostic: %w", err)
		}
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return len(diags), nil
}

// ReadJSONL reads diagnostics written by ExportJSONL. Empty and malformed
// lines are skipped.
func ReadJSONL(path string) ([]types.Diagnostic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var out []types.Diagnostic
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var d types.Diagnostic
		if err := json.Unmarshal(line, &d); err != nil {
			continue
		}
		out = append(out, d)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return out, nil
}
