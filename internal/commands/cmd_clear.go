package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/keladin/retrace/internal/printer"
)

type ClearCmd struct {
	flags *Flags
}

// NewClearCmd creates a new clear command
func NewClearCmd(flags *Flags) *ClearCmd {
	return &ClearCmd{flags: flags}
}

// Register adds the clear command to the application
func (cmd *ClearCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "clear",
		Usage:       "Clear all history entries",
		UsageText:   "retrace clear",
		Description: "Removes every history entry and persists the empty state.",
		Action:      cmd.run,
	})

	return app
}

func (cmd *ClearCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	count := cmd.flags.Service.Count()
	if count == 0 {
		p.Infof("History is already empty")
		return nil
	}

	cmd.flags.Service.Clear(ctx)
	p.Successf("Cleared %d entries", count)

	return nil
}
