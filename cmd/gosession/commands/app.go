package commands

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/gateway"
	"github.com/MrEthical07/goSession/internal/cliconfig"
	"github.com/MrEthical07/goSession/route"
)

const defaultAPIHelp = gateway.DefaultBaseURL

// app is the dependency graph shared by subcommands.
type app struct {
	file     cliconfig.FileConfig
	auditLog string
	stderr   io.Writer

	engine    *goSession.Engine
	auditFile *os.File
}

func (a *app) init(cmd *cobra.Command, opts *options) error {
	if p := strings.TrimSpace(opts.configPath); p != "" {
		cfg, err := cliconfig.Load(p)
		if err != nil {
			return err
		}
		a.file = cfg
	}

	if v := strings.TrimSpace(opts.apiURL); v != "" {
		a.file.API.BaseURL = v
	}
	if v := strings.TrimSpace(opts.token); v != "" {
		a.file.API.Token = v
	}

	a.auditLog = a.file.AuditLogPath()
	if v := strings.TrimSpace(opts.auditLog); v != "" {
		a.auditLog = v
	}
	a.stderr = cmd.ErrOrStderr()
	return nil
}

func (a *app) routes() (*route.Table, error) {
	return a.file.RouteTable()
}

// session builds the engine on first use.
func (a *app) session() (*goSession.Engine, error) {
	if a.engine != nil {
		return a.engine, nil
	}

	cfg, err := a.file.Engine()
	if err != nil {
		return nil, err
	}

	gw, err := gateway.NewHTTP(a.file.Gateway())
	if err != nil {
		return nil, err
	}

	routes, err := a.routes()
	if err != nil {
		return nil, err
	}

	b := goSession.New().
		WithGateway(gw).
		WithRoutes(routes).
		WithLogger(log.New(a.stderr, "", log.LstdFlags))

	if a.auditLog != "" {
		sink, err := a.openAudit()
		if err != nil {
			return nil, err
		}
		cfg.Audit.Enabled = true
		b = b.WithAuditSink(sink)
	}

	engine, err := b.WithConfig(cfg).Build()
	if err != nil {
		return nil, fmt.Errorf("build session engine: %w", err)
	}
	a.engine = engine
	return engine, nil
}

func (a *app) openAudit() (goSession.AuditSink, error) {
	if a.auditLog == "-" {
		return goSession.NewJSONWriterSink(a.stderr), nil
	}
	f, err := os.OpenFile(a.auditLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) // #nosec G304 - audit path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	a.auditFile = f
	return goSession.NewJSONWriterSink(f), nil
}

func (a *app) close() error {
	if a.engine != nil {
		a.engine.Close()
		a.engine = nil
	}
	if a.auditFile != nil {
		err := a.auditFile.Close()
		a.auditFile = nil
		return err
	}
	return nil
}
