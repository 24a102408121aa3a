package commands

import (
	"github.com/spf13/cobra"
)

// routes: print the route table.
func routesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the route table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.routes()
			if err != nil {
				return err
			}
			return printRoutes(cmd.OutOrStdout(), t)
		},
	}
}
