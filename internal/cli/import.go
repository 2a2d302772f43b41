// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"tradebook/internal/errors"
	"tradebook/internal/logging"
	"tradebook/internal/parse"
)

// addImportCommands adds the CSV import command.
func addImportCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newImportCmd(app))
}

func newImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import trades from a CSV or TSV file",
		Long: `Import trades from a delimited file with a header row.

Columns are matched to trade fields automatically from the header text,
in Spanish or English. Use --map to pin a field to a specific header or
1-based column number when auto-mapping guesses wrong. Rows that fail a
required field are skipped and reported; they never abort the import.`,
		Example: `  tradebook import trades.csv
  tradebook import export.tsv --sep tab
  tradebook import broker.csv --map asset=Symbol --map size=3
  tradebook import trades.csv --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireBook(app, output) {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			data, err := os.ReadFile(args[0])
			if err != nil {
				output.Error("Failed to read %s: %v", args[0], err)
				return err
			}

			sepFlag, _ := cmd.Flags().GetString("sep")
			sep, err := separatorFromFlag(sepFlag)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			mapFlags, _ := cmd.Flags().GetStringArray("map")
			overrides, err := overridesFromFlags(mapFlags)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			res, mapping, err := parse.Import(data, sep, overrides)
			if err != nil {
				output.Error("Import failed: %v", err)
				if errors.Is(err, errors.ErrMissingColumn) {
					output.Dim("Map columns explicitly, e.g. --map entryPrice=\"Precio entrada\" or --map size=5.")
				}
				return err
			}

			dryRun, _ := cmd.Flags().GetBool("dry-run")
			if output.IsJSON() {
				if dryRun {
					return output.JSON(map[string]interface{}{
						"dryRun":  true,
						"trades":  res.Trades,
						"skipped": errorStrings(res.Skipped),
					})
				}
			}

			if !output.IsJSON() {
				showMapping(output, mapping)
			}

			if dryRun {
				output.Bold("Dry run: %d rows would import, %d would be skipped", len(res.Trades), len(res.Skipped))
				for _, t := range res.Trades {
					output.Printf("  %s  %-10s %-5s entry %s size %s\n",
						FormatDate(t.Date), t.Asset, t.Direction, FormatPrice(t.EntryPrice), FormatSize(t.Size))
				}
				showSkipped(output, res.Skipped)
				return nil
			}

			if len(res.Trades) == 0 {
				output.Warning("Nothing to import: no row parsed.")
				showSkipped(output, res.Skipped)
				return nil
			}

			merged := append(app.Book.Trades(), res.Trades...)
			if err := app.Book.ReplaceAll(ctx, merged, app.Book.Capital()); err != nil {
				output.Error("Failed to save imported trades: %v", err)
				return err
			}
			logging.LogImport(app.Logger, args[0], len(res.Trades), len(res.Skipped))

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"imported": len(res.Trades),
					"skipped":  errorStrings(res.Skipped),
					"total":    app.Book.Len(),
				})
			}
			output.Success("✓ Imported %d trades (%d rows skipped), journal now holds %d", len(res.Trades), len(res.Skipped), app.Book.Len())
			showSkipped(output, res.Skipped)
			return nil
		},
	}

	cmd.Flags().String("sep", "", "field separator: comma, semicolon, tab, or a literal character (default: auto-detect)")
	cmd.Flags().StringArray("map", nil, "column mapping override, field=header or field=column-number (repeatable)")
	cmd.Flags().Bool("dry-run", false, "parse and report without changing the journal")
	return cmd
}

// separatorFromFlag resolves the --sep flag. Empty means auto-detect.
func separatorFromFlag(s string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return 0, nil
	case "comma", ",":
		return ',', nil
	case "semicolon", ";":
		return ';', nil
	case "tab", "\\t", "\t":
		return '\t', nil
	}
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		return r, nil
	}
	return 0, errors.NewValidationError("sep", s, "must be comma, semicolon, tab or a single character")
}

// overridesFromFlags parses repeated --map field=column specs.
func overridesFromFlags(specs []string) (parse.Overrides, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	overrides := make(parse.Overrides, len(specs))
	for _, spec := range specs {
		name, ref, found := strings.Cut(spec, "=")
		if !found || strings.TrimSpace(ref) == "" {
			return nil, errors.NewValidationError("map", spec, "expected field=header or field=column-number")
		}
		f, ok := parse.ParseField(name)
		if !ok {
			return nil, errors.NewValidationError("map", name, "unknown field; one of date, asset, direction, entryPrice, exitPrice, size, leverage, stopLoss, takeProfit, journal")
		}
		overrides[f] = ref
	}
	return overrides, nil
}

func showMapping(output *Output, mapping parse.Mapping) {
	if len(mapping) == 0 {
		return
	}
	var parts []string
	for _, f := range []parse.Field{
		parse.FieldDate, parse.FieldAsset, parse.FieldDirection, parse.FieldEntryPrice,
		parse.FieldExitPrice, parse.FieldSize, parse.FieldLeverage, parse.FieldStopLoss,
		parse.FieldTakeProfit, parse.FieldJournal,
	} {
		if i, ok := mapping[f]; ok {
			parts = append(parts, string(f)+"→col "+strconv.Itoa(i+1))
		}
	}
	output.Dim("Mapping: %s", strings.Join(parts, ", "))
}

func showSkipped(output *Output, skipped []error) {
	if len(skipped) == 0 {
		return
	}
	output.Println()
	output.Warning("Skipped rows:")
	for _, err := range skipped {
		output.Printf("  %v\n", err)
	}
}

func errorStrings(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		out = append(out, err.Error())
	}
	return out
}
