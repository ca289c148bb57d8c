package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/swatch/pkg/swatch"
)

const modulePath = "github.com/mesh-intelligence/swatch"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the swatch version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "swatch v%s\nmodule: %s\n", swatch.Version, modulePath)
			return nil
		},
	}
}
