package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/keladin/retrace/internal/printer"
)

type HistoryCmd struct {
	flags *Flags

	// Command-specific flags
	format string
	limit  int
}

// NewHistoryCmd creates a new history command
func NewHistoryCmd(flags *Flags) *HistoryCmd {
	return &HistoryCmd{flags: flags}
}

// Register adds the history command to the application
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "history",
		Usage:     "List all history entries",
		UsageText: "retrace history [options]",
		Description: `Lists the navigation history in visit order.

The current entry is marked with an arrow. Positions are 1-based, so
'retrace back' moves toward position 1.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "show only the last N entries",
				Destination: &cmd.limit,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *HistoryCmd) run(ctx context.Context, c *cli.Command) error {
	page := cmd.flags.Service.History()

	if cmd.limit > 0 && len(page.History) > cmd.limit {
		page.History = page.History[len(page.History)-cmd.limit:]
	}

	if cmd.format == "json" {
		enc := json.NewEncoder(c.Root().Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	}

	if len(page.History) == 0 {
		printer.Ctx(ctx).Infof("No history yet")
		return nil
	}

	out := c.Root().Writer
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "  POS\tADDRESS\tLABEL\tVISITED")

	for _, item := range page.History {
		marker := " "
		if item.IsCurrent {
			marker = "→"
		}

		address := item.Address
		if len(address) > 60 {
			address = address[:57] + "..."
		}

		_, _ = fmt.Fprintf(w, "%s %d\t%s\t%s\t%s\n",
			marker,
			item.Position,
			address,
			item.Label,
			item.VisitedAt.Local().Format("2006-01-02 15:04:05"),
		)
	}

	return w.Flush()
}
