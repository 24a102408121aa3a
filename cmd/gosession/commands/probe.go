package commands

import (
	"github.com/spf13/cobra"
)

// probe: resolve the session against the backend and print it.
func probeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Resolve the current session and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.session()
			if err != nil {
				return err
			}
			if err := engine.EnsureSession(cmd.Context()); err != nil {
				return err
			}
			printState(cmd.OutOrStdout(), engine.State())
			return nil
		},
	}
}
