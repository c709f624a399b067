package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/keladin/retrace/internal/printer"
)

type BackCmd struct {
	flags *Flags
}

// NewBackCmd creates a new back command
func NewBackCmd(flags *Flags) *BackCmd {
	return &BackCmd{flags: flags}
}

// Register adds the back command to the application
func (cmd *BackCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "back",
		Usage:       "Navigate back one entry",
		UsageText:   "retrace back",
		Description: "Moves the cursor one entry back in the navigation history.",
		Action:      cmd.run,
	})

	return app
}

func (cmd *BackCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	state, err := cmd.flags.Service.Back(ctx)
	if err != nil {
		return err
	}

	p.Successf("Went back to %s", state.CurrentAddress)
	p.Infof("Entry %d of %d", state.CursorIndex+1, state.TotalEntries)

	return nil
}
