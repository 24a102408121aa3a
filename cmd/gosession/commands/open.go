package commands

import (
	"github.com/spf13/cobra"
)

// open <path>: navigate through the guard and print every hop.
func openCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "open <path>",
		Short: "Navigate to a path and print the guard decisions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.session()
			if err != nil {
				return err
			}
			nav, err := engine.Navigate(cmd.Context(), args[0])
			printNavigation(cmd.OutOrStdout(), nav)
			return err
		},
	}
}
