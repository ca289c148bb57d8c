package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/mesh-intelligence/swatch/pkg/types"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printRun writes one line per file, the diagnostics of failed files
// indented below it, and a summary line.
func printRun(w io.Writer, run *types.BuildRun) {
	for _, f := range run.Files {
		switch {
		case !f.Failed() && f.Output != "":
			fmt.Fprintf(w, "ok      %s -> %s\n", f.Path, f.Output)
		case !f.Failed():
			fmt.Fprintf(w, "ok      %s\n", f.Path)
		default:
			fmt.Fprintf(w, "FAILED  %s\n", f.Path)
		}
		for _, d := range f.Diagnostics {
			fmt.Fprintf(w, "        %s: %s\n", d.Kind, d.Message)
		}
	}
	fmt.Fprintf(w, "%d files, %d failed", len(run.Files), run.Failed())
	if run.RunID != "" {
		fmt.Fprintf(w, " (run %s)", run.RunID)
	}
	fmt.Fprintln(w)
}

// printDiagnostics writes diagnostics grouped under the file they belong to,
// keeping the order they were recorded in.
func printDiagnostics(w io.Writer, diags []types.Diagnostic) {
	last := ""
	for i, d := range diags {
		if i == 0 || d.Path != last {
			fmt.Fprintln(w, d.Path)
			last = d.Path
		}
		fmt.Fprintf(w, "        %s: %s\n", d.Kind, d.Message)
	}
	fmt.Fprintf(w, "%d diagnostics\n", len(diags))
}

// printDefaults writes one "id = option" line per preference in order.
func printDefaults(w io.Writer, order []string, defaults map[string]string) {
	ids := order
	if len(ids) == 0 {
		for id := range defaults {
			ids = append(ids, id)
		}
		sort.Strings(ids)
	}
	for _, id := range ids {
		fmt.Fprintf(w, "%s = %s\n", id, defaults[id])
	}
}

// outcome turns a completed run into the command's result.
func outcome(w io.Writer, jsonMode bool, run *types.BuildRun) error {
	if jsonMode {
		if err := printJSON(w, run); err != nil {
			return sysError(err)
		}
	} else {
		printRun(w, run)
	}
	if run.Failed() > 0 {
		return userError(ErrFilesFailed)
	}
	return nil
}
