package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	apiURL     string
	token      string
	auditLog   string
}

// Execute runs the CLI with os.Args. SIGINT and SIGTERM cancel the command
// context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	a := &app{}

	root := &cobra.Command{
		Use:          "gosession",
		Short:        "Session bootstrap and route guard console for the Nebula manager",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, opts)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&opts.apiURL, "api", "", "backend API root (default "+defaultAPIHelp+")")
	root.PersistentFlags().StringVar(&opts.token, "token", "", "static bearer token sent with every request")
	root.PersistentFlags().StringVar(&opts.auditLog, "audit-log", "", `write audit events as JSON lines to this file ("-" for stderr)`)

	root.AddCommand(
		routesCmd(a),
		probeCmd(a),
		openCmd(a),
		shellCmd(a),
		devBackendCmd(a),
	)
	return root
}
