package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/keladin/retrace/internal/printer"
)

type ForwardCmd struct {
	flags *Flags
}

// NewForwardCmd creates a new forward command
func NewForwardCmd(flags *Flags) *ForwardCmd {
	return &ForwardCmd{flags: flags}
}

// Register adds the forward command to the application
func (cmd *ForwardCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "forward",
		Usage:       "Navigate forward one entry",
		UsageText:   "retrace forward",
		Description: "Moves the cursor one entry forward in the navigation history.",
		Action:      cmd.run,
	})

	return app
}

func (cmd *ForwardCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	state, err := cmd.flags.Service.Forward(ctx)
	if err != nil {
		return err
	}

	p.Successf("Went forward to %s", state.CurrentAddress)
	p.Infof("Entry %d of %d", state.CursorIndex+1, state.TotalEntries)

	return nil
}
