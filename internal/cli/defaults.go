package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/swatch/internal/build"
)

// defaultsOutput is the JSON form of the defaults command.
type defaultsOutput struct {
	Path     string            `json:"path"`
	Order    []string          `json:"order"`
	Defaults map[string]string `json:"defaults"`
}

func newDefaultsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "defaults <file>",
		Short: "Print the default option of every preference a file declares",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			holder, err := a.loadHolder()
			if err != nil {
				return err
			}
			rel := args[0]
			out := cmd.OutOrStdout()

			_, res, err := build.New(a.cfg, holder, nil).Evaluate(cmd.Context(), rel)
			if errors.Is(err, fs.ErrNotExist) {
				return userError(err)
			}
			if err != nil {
				for _, d := range build.Diagnostics(rel, err) {
					fmt.Fprintf(out, "%s: %s\n", d.Kind, d.Message)
				}
				return userError(ErrFilesFailed)
			}

			if a.flags.jsonMode {
				if err := printJSON(out, defaultsOutput{Path: rel, Order: res.Graph.Order(), Defaults: res.Defaults}); err != nil {
					return sysError(err)
				}
				return nil
			}
			printDefaults(out, res.Graph.Order(), res.Defaults)
			return nil
		},
	}
}
