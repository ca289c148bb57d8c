package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/swatch/internal/sqlite"
	"github.com/mesh-intelligence/swatch/pkg/types"
)

func newReportCmd(a *app) *cobra.Command {
	var runID, jsonlPath, fromJSONL string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the diagnostics of a recorded build",
		Long: "Report prints the latest recorded build, or the one named by --run.\n" +
			"With --from-jsonl it prints the diagnostics of an earlier --jsonl export instead.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromJSONL != "" {
				return a.printExport(cmd, fromJSONL)
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			var run *types.BuildRun
			if runID != "" {
				run, err = store.GetRun(runID)
			} else {
				run, err = store.LatestRun()
			}
			if errors.Is(err, types.ErrRunNotFound) {
				return userError(err)
			}
			if err != nil {
				return sysError(err)
			}

			out := cmd.OutOrStdout()
			if jsonlPath != "" {
				n, err := store.ExportJSONL(run.RunID, jsonlPath)
				if err != nil {
					return sysError(err)
				}
				fmt.Fprintf(out, "Wrote %d diagnostics to %s\n", n, jsonlPath)
				return nil
			}
			if a.flags.jsonMode {
				if err := printJSON(out, run); err != nil {
					return sysError(err)
				}
				return nil
			}
			printRun(out, run)
			return nil
		},
	}
	cmd.Flags().StringVar(&runID, "run", "", "run id (default: latest)")
	cmd.Flags().StringVar(&jsonlPath, "jsonl", "", "export diagnostics as JSON lines to this file")
	cmd.Flags().StringVar(&fromJSONL, "from-jsonl", "", "print diagnostics from a JSON lines export")
	cmd.MarkFlagsMutuallyExclusive("jsonl", "from-jsonl")
	cmd.MarkFlagsMutuallyExclusive("run", "from-jsonl")
	return cmd
}

// printExport prints the diagnostics of a JSONL export without opening the
// report store.
func (a *app) printExport(cmd *cobra.Command, path string) error {
	diags, err := sqlite.ReadJSONL(path)
	if errors.Is(err, fs.ErrNotExist) {
		return userError(err)
	}
	if err != nil {
		return sysError(err)
	}
	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		if err := printJSON(out, diags); err != nil {
			return sysError(err)
		}
		return nil
	}
	printDiagnostics(out, diags)
	return nil
}
