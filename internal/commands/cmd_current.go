package commands

import (
	"context"
	"encoding/json"

	"github.com/urfave/cli/v3"

	"github.com/keladin/retrace/internal/core/history"
	"github.com/keladin/retrace/internal/printer"
)

type CurrentCmd struct {
	flags  *Flags
	format string
}

// NewCurrentCmd creates a new current command
func NewCurrentCmd(flags *Flags) *CurrentCmd {
	return &CurrentCmd{flags: flags}
}

// Register adds the current command to the application
func (cmd *CurrentCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "current",
		Usage:       "Show the current history entry",
		UsageText:   "retrace current [options]",
		Description: "Shows the address at the cursor along with position and navigation capabilities.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *CurrentCmd) run(ctx context.Context, c *cli.Command) error {
	state := cmd.flags.Service.Current()

	if cmd.format == "json" {
		enc := json.NewEncoder(c.Root().Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	}

	return cmd.outputText(ctx, state)
}

func (cmd *CurrentCmd) outputText(ctx context.Context, state history.CurrentState) error {
	p := printer.Ctx(ctx)

	if state.TotalEntries == 0 {
		p.Infof("History is empty")
		return nil
	}

	p.Printf("%s", p.Bold(state.CurrentAddress))
	p.Printf("Entry %d of %d", state.CursorIndex+1, state.TotalEntries)

	back := printer.Cross
	if state.CanGoBack {
		back = printer.Check
	}
	forward := printer.Cross
	if state.CanGoForward {
		forward = printer.Check
	}
	p.Printf("%s back  %s forward", back, forward)

	return nil
}
