package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/keladin/retrace/internal/printer"
)

type VisitCmd struct {
	flags *Flags
}

// NewVisitCmd creates a new visit command
func NewVisitCmd(flags *Flags) *VisitCmd {
	return &VisitCmd{flags: flags}
}

// Register adds the visit command to the application
func (cmd *VisitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "visit",
		Usage:     "Visit a URL and make it the current entry",
		UsageText: "retrace visit <url>",
		Description: `Records a visit to the given URL.

The URL is normalized before being stored: surrounding whitespace is
trimmed and a missing scheme defaults to https. Visiting while
positioned mid-history discards all forward entries.

Addresses matching a blocked_urls pattern in the config are rejected.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *VisitCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one URL argument, got %d", c.Args().Len())
	}

	state, err := cmd.flags.Service.Visit(ctx, c.Args().First())
	if err != nil {
		return err
	}

	p.Successf("Visited %s", state.CurrentAddress)
	p.Infof("Entry %d of %d", state.CursorIndex+1, state.TotalEntries)

	return nil
}
