package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/swatch/internal/build"
	"github.com/mesh-intelligence/swatch/internal/catalog"
	"github.com/mesh-intelligence/swatch/internal/sqlite"
	"github.com/mesh-intelligence/swatch/internal/watch"
	"github.com/mesh-intelligence/swatch/pkg/types"
)

// loadHolder loads the configured catalog. Catalog problems are the user's
// to fix.
func (a *app) loadHolder() (*catalog.Holder, error) {
	cat, err := catalog.Load(a.cfg.CatalogPath)
	if err != nil {
		return nil, userError(err)
	}
	return catalog.NewHolder(cat), nil
}

// openStore attaches the report database. The caller must Detach it.
func (a *app) openStore() (*sqlite.Backend, error) {
	store := sqlite.NewBackend()
	if err := store.Attach(a.cfg); err != nil {
		return nil, sysError(fmt.Errorf("open report store: %w", err))
	}
	return store, nil
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file...]",
		Short: "Validate preference declarations without writing pages",
		Long: "Check evaluates the given content files, or every file matching the include\n" +
			"pattern, and reports each error. Files are relative to the content directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			holder, err := a.loadHolder()
			if err != nil {
				return err
			}
			run, err := build.New(a.cfg, holder, nil).CheckFiles(cmd.Context(), args)
			if err != nil {
				return sysError(err)
			}
			return outcome(cmd.OutOrStdout(), a.flags.jsonMode, run)
		},
	}
}

func newBuildCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Render every passing content file and record the run",
		RunE: func(cmd *cobra.Command, args []string) error {
			holder, err := a.loadHolder()
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			run, err := build.New(a.cfg, holder, store).Run(cmd.Context())
			if err != nil {
				return sysError(err)
			}
			return outcome(cmd.OutOrStdout(), a.flags.jsonMode, run)
		},
	}
}

func newWatchCmd(a *app) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild whenever content or the catalog changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			holder, err := a.loadHolder()
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			w := watch.New(a.cfg, holder, build.New(a.cfg, holder, store))
			w.SetDebounce(debounce)
			out := cmd.OutOrStdout()
			w.OnBuild = func(run *types.BuildRun) {
				if a.flags.jsonMode {
					_ = printJSON(out, run)
					return
				}
				printRun(out, run)
			}
			if err := w.Run(cmd.Context()); err != nil {
				return sysError(err)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before a rebuild")
	return cmd
}
