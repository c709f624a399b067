package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/keladin/retrace/internal/api"
	"github.com/keladin/retrace/internal/printer"
)

type ServeCmd struct {
	flags *Flags

	// Command-specific flags
	addr string
}

// NewServeCmd creates a new serve command
func NewServeCmd(flags *Flags) *ServeCmd {
	return &ServeCmd{flags: flags}
}

// Register adds the serve command to the application
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Start the navigation history HTTP API",
		UsageText: "retrace serve [options]",
		Description: `Starts an HTTP server exposing the navigation history over a JSON API.

Endpoints:
  GET    /api/health   service health and entry count
  GET    /api/current  current entry with navigation capabilities
  GET    /api/history  full history with cursor position
  POST   /api/visit    visit a URL ({"url": "..."})
  POST   /api/back     navigate back
  POST   /api/forward  navigate forward
  DELETE /api/clear    clear all history

The server shuts down cleanly on SIGINT or SIGTERM and saves the
history before exiting.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Aliases:     []string{"a"},
				Usage:       "listen address (overrides config)",
				Destination: &cmd.addr,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ServeCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	addr := cmd.addr
	if addr == "" {
		addr = cmd.flags.Config.Server.Addr
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.With().Str("component", "api").Logger()
	server := api.New(cmd.flags.Service, addr, cmd.flags.Config.Server.CORS, logger)

	p.Infof("Listening on http://%s", addr)
	if err := server.Run(ctx); err != nil {
		return err
	}

	p.Successf("Server stopped")
	return nil
}
