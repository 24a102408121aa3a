package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrEthical07/goSession/internal/cliconfig"
	"github.com/MrEthical07/goSession/internal/devbackend"
)

// dev-backend: serve /api/{health,login,logout,me} on an in-memory Redis.
func devBackendCmd(a *app) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "dev-backend",
		Short: "Run the reference auth backend on an in-memory Redis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := listen
			if addr == "" {
				addr = a.file.Listen()
			}

			mem, err := devbackend.NewMemory(a.file.DevBackend())
			if err != nil {
				return err
			}
			defer mem.Close()
			mem.SetLogger(log.New(cmd.ErrOrStderr(), "", log.LstdFlags))

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", addr, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dev backend listening on http://%s/api\n", ln.Addr())

			return serve(cmd.Context(), ln, mem.Handler())
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default "+cliconfig.DefaultListen+")")
	return cmd
}

func serve(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
