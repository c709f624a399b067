package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/keladin/retrace/internal/printer"
)

type ExportCmd struct {
	flags *Flags

	// Command-specific flags
	output string
}

// NewExportCmd creates a new export command
func NewExportCmd(flags *Flags) *ExportCmd {
	return &ExportCmd{flags: flags}
}

// Register adds the export command to the application
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Export history as JSON",
		UsageText: "retrace export [options]",
		Description: `Writes the full history snapshot as JSON.

The output includes every entry and the cursor position, and can be fed
back into 'retrace import'. Writes to stdout unless --output is given.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "write to file instead of stdout",
				Destination: &cmd.output,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ExportCmd) run(ctx context.Context, c *cli.Command) error {
	snap := cmd.flags.Service.Export()

	out := c.Root().Writer
	if cmd.output != "" {
		f, err := os.Create(cmd.output)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	if cmd.output != "" {
		printer.Ctx(ctx).Successf("Exported %d entries to %s", len(snap.Entries), cmd.output)
	}

	return nil
}
