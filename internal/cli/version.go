package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/beaconnet/pkg/buildinfo"
)

// versionCommand prints build information. It is a longer form of --version.
func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
			return nil
		},
	}
}
