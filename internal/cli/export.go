// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"tradebook/internal/export"
	"tradebook/internal/filter"
)

// addExportCommands adds the spreadsheet export command.
func addExportCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newExportCmd(app))
}

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export the journal as a spreadsheet TSV",
		Long: `Export trades as tab-separated values with the journal's Spanish
column headers, ready to paste into the trading spreadsheet. Numbers use
es-ES formatting. Pass - to write to stdout. The same filter flags as
'list' restrict what gets exported.`,
		Example: `  tradebook export
  tradebook export trades.tsv --asset BTC
  tradebook export - | head`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireBook(app, output) {
				return nil
			}

			f, err := filterFromFlags(cmd)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			trades := filter.Apply(app.Book.Trades(), f)

			outFile := "tradebook_export.tsv"
			if len(args) > 0 {
				outFile = args[0]
			}

			if outFile == "-" {
				return export.Write(cmd.OutOrStdout(), trades)
			}

			file, err := os.Create(outFile)
			if err != nil {
				output.Error("Failed to create %s: %v", outFile, err)
				return err
			}
			defer file.Close()

			if err := export.Write(file, trades); err != nil {
				output.Error("Export failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"file": outFile, "trades": len(trades)})
			}
			output.Success("✓ Exported %d trades to %s", len(trades), outFile)
			return nil
		},
	}

	addFilterFlags(cmd)
	return cmd
}
