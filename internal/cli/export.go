package cli

import (
	"fmt"

	"github.com/sadopc/rollcall/internal/export"
)

type ExportCmd struct {
	Format string `short:"f" enum:"csv,json" default:"csv" help:"Output format (csv, json)."`
	Output string `short:"o" help:"Write to this file instead of standard output." type:"path"`
}

func (c *ExportCmd) Run(ctx *Context) error {
	history, err := ctx.Store.FullAttendanceHistoryForExport()
	if err != nil {
		return err
	}

	switch c.Format {
	case "json":
		if c.Output == "" {
			return fmt.Errorf("--output is required for json export")
		}
		if err := export.ToJSON(history, c.Output); err != nil {
			return err
		}
	default:
		if c.Output == "" {
			text, err := export.ToDelimitedText(export.HistoryRows(history))
			if err != nil {
				return err
			}
			ctx.printf("%s", text)
			return nil
		}
		if err := export.ToCSV(history, c.Output); err != nil {
			return err
		}
	}
	ctx.printf("Exported %d record(s) to %s\n", len(history), c.Output)
	return nil
}
