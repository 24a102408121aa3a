package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/metrics/export/prometheus"
)

const shellHelp = `commands:
  login <user> <password>  sign in
  logout                   sign out
  state                    print the session
  open <path>              navigate through the guard
  where                    print the current location
  routes                   print the route table
  metrics                  print engine metrics
  clear-error              drop the pending login error
  help                     show this text
  exit                     leave the shell
`

// shell: one engine for the whole interactive session.
func shellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive console holding one session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.session()
			if err != nil {
				return err
			}
			c := newConsole(engine, cmd.OutOrStdout())
			return c.run(cmd.Context(), cmd.InOrStdin())
		},
	}
}

type console struct {
	engine  *goSession.Engine
	metrics *prometheus.Exporter
	out     io.Writer
}

func newConsole(engine *goSession.Engine, out io.Writer) *console {
	return &console{
		engine:  engine,
		metrics: prometheus.New(engine),
		out:     out,
	}
}

var errExit = errors.New("exit")

func (c *console) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(c.out, "> ")
	for scanner.Scan() {
		err := c.exec(ctx, scanner.Text())
		if errors.Is(err, errExit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprint(c.out, "> ")
	}
	fmt.Fprintln(c.out)
	return scanner.Err()
}

func (c *console) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "login":
		if len(args) != 2 {
			return errors.New("usage: login <user> <password>")
		}
		if err := c.engine.Login(ctx, args[0], args[1]); err != nil {
			var loginErr *goSession.LoginError
			if errors.As(err, &loginErr) {
				return errors.New(loginErr.Message)
			}
			return err
		}
		fmt.Fprintf(c.out, "signed in as %s\n", c.engine.State().Identity.Username)
	case "logout":
		c.engine.Logout(ctx)
		fmt.Fprintln(c.out, "signed out")
	case "state":
		if err := c.engine.EnsureSession(ctx); err != nil {
			return err
		}
		printState(c.out, c.engine.State())
	case "open":
		if len(args) != 1 {
			return errors.New("usage: open <path>")
		}
		nav, err := c.engine.Navigate(ctx, args[0])
		printNavigation(c.out, nav)
		return err
	case "where":
		cur := c.engine.Navigator().Current()
		if cur.IsZero() {
			fmt.Fprintln(c.out, "nowhere yet")
			return nil
		}
		fmt.Fprintln(c.out, cur.FullPath)
	case "routes":
		return printRoutes(c.out, c.engine.Routes())
	case "metrics":
		fmt.Fprint(c.out, c.metrics.Render())
	case "clear-error":
		c.engine.ClearError()
	case "help":
		fmt.Fprint(c.out, shellHelp)
	case "exit", "quit":
		return errExit
	default:
		return fmt.Errorf("unknown command %q, try help", cmd)
	}
	return nil
}
