// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tradebook/internal/errors"
	"tradebook/internal/filter"
	"tradebook/internal/logging"
	"tradebook/internal/models"
	"tradebook/internal/parse"
)

// addTradeCommands adds trade recording and review commands.
func addTradeCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newAddCmd(app))
	rootCmd.AddCommand(newListCmd(app))
	rootCmd.AddCommand(newShowCmd(app))
	rootCmd.AddCommand(newEditCmd(app))
	rootCmd.AddCommand(newDeleteCmd(app))
	rootCmd.AddCommand(newCapitalCmd(app))
}

func newAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [quick-add line]",
		Short: "Record a trade",
		Long: `Record a trade, either as a quick-add one-liner or with field flags.

The quick-add format is a comma-separated line:

  date, asset, direction, leverage, entry, exit, stop, target, size, notes...

Use 0 for exit, stop or target to leave them unset. A trade without an
exit price is recorded as open.`,
		Example: `  tradebook add "01/02/2024, BTCUSDT, long, x10, 42000, 43500, 41000, 44000, 0.5, breakout retest"
  tradebook add --asset ETHUSDT --direction short --entry 3200 --size 1.5 --stop-loss 3300`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireBook(app, output) {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			var trade models.Trade
			if len(args) > 0 {
				t, err := parse.ParseQuickAdd(strings.Join(args, " "))
				if err != nil {
					output.Error("Could not parse quick-add line: %v", err)
					output.Dim("Format: date, asset, direction, leverage, entry, exit, stop, target, size, notes")
					return err
				}
				trade = t
			} else {
				t, problems := tradeFromFlags(cmd)
				if len(problems) > 0 {
					for _, p := range problems {
						output.Error("%v", p)
					}
					return problems[0]
				}
				trade = t
			}

			var (
				saved models.Trade
				err   error
			)
			if trade.ExitPrice > 0 {
				saved, err = app.Book.AddClosed(ctx, trade)
			} else {
				saved, err = app.Book.AddOpen(ctx, trade)
			}
			if err != nil {
				output.Error("Failed to record trade: %v", err)
				return err
			}
			logging.LogLedgerChange(app.Logger, "add", saved.ID, saved.Asset)

			if output.IsJSON() {
				return output.JSON(saved)
			}
			if saved.Closed() {
				output.Success("✓ Trade #%d recorded: %s %s, P&L %s", saved.ID, saved.Direction, saved.Asset, FormatPnL(saved.PnL))
			} else {
				output.Success("✓ Trade #%d recorded: %s %s @ %s (open)", saved.ID, saved.Direction, saved.Asset, FormatPrice(saved.EntryPrice))
			}
			return nil
		},
	}

	addTradeFieldFlags(cmd)
	return cmd
}

// addTradeFieldFlags registers the form-style field flags shared by add and edit.
func addTradeFieldFlags(cmd *cobra.Command) {
	cmd.Flags().String("date", "", "trade date (default: today)")
	cmd.Flags().String("asset", "", "traded asset, e.g. BTCUSDT")
	cmd.Flags().String("direction", "", "long or short")
	cmd.Flags().String("entry", "", "entry price")
	cmd.Flags().String("exit", "", "exit price (empty leaves the trade open)")
	cmd.Flags().String("size", "", "position size")
	cmd.Flags().String("leverage", "", "leverage label, e.g. x10")
	cmd.Flags().String("stop-loss", "", "stop loss price")
	cmd.Flags().String("take-profit", "", "take profit price")
	cmd.Flags().String("journal", "", "journal notes")
}

// tradeFromFlags builds a trade from the field flags, collecting every form
// problem instead of stopping at the first.
func tradeFromFlags(cmd *cobra.Command) (models.Trade, []error) {
	var t models.Trade
	var problems []error

	invalid := func(field, value, msg string) {
		problems = append(problems, errors.NewValidationError(field, value, msg))
	}

	dateStr, _ := cmd.Flags().GetString("date")
	if strings.TrimSpace(dateStr) == "" {
		now := time.Now().UTC()
		t.Date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	} else if d, err := parse.ParseDate(dateStr); err != nil {
		invalid("date", dateStr, "not a recognizable date")
	} else {
		t.Date = d
	}

	t.Asset, _ = cmd.Flags().GetString("asset")
	t.Asset = strings.TrimSpace(t.Asset)
	if t.Asset == "" {
		invalid("asset", "", "required")
	}

	dirStr, _ := cmd.Flags().GetString("direction")
	if d, err := parse.ParseDirection(dirStr); err != nil {
		invalid("direction", dirStr, "required, long or short")
	} else {
		t.Direction = d
	}

	entryStr, _ := cmd.Flags().GetString("entry")
	if v, err := parse.ParseNumber(entryStr); err != nil || v <= 0 {
		invalid("entry", entryStr, "required, must be a positive number")
	} else {
		t.EntryPrice = v
	}

	sizeStr, _ := cmd.Flags().GetString("size")
	if v, err := parse.ParseNumber(sizeStr); err != nil || v <= 0 {
		invalid("size", sizeStr, "required, must be a positive number")
	} else {
		t.Size = v
	}

	exitStr, _ := cmd.Flags().GetString("exit")
	if strings.TrimSpace(exitStr) != "" {
		if v, err := parse.ParseNumber(exitStr); err != nil || v <= 0 {
			invalid("exit", exitStr, "must be a positive number when set")
		} else {
			t.ExitPrice = v
		}
	}

	stopStr, _ := cmd.Flags().GetString("stop-loss")
	if strings.TrimSpace(stopStr) != "" {
		if v, err := parse.ParseNumber(stopStr); err != nil || v <= 0 {
			invalid("stop-loss", stopStr, "must be a positive number when set")
		} else {
			t.StopLoss = v
		}
	}

	targetStr, _ := cmd.Flags().GetString("take-profit")
	if strings.TrimSpace(targetStr) != "" {
		if v, err := parse.ParseNumber(targetStr); err != nil || v <= 0 {
			invalid("take-profit", targetStr, "must be a positive number when set")
		} else {
			t.TakeProfit = v
		}
	}

	t.Leverage, _ = cmd.Flags().GetString("leverage")
	t.Journal, _ = cmd.Flags().GetString("journal")

	t.Recalculate()
	return t, problems
}

// addFilterFlags registers the shared subview flags; filterFromFlags reads
// them back. list, stats and export all accept the same subview.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "only trades on or after this date")
	cmd.Flags().String("to", "", "only trades on or before this date")
	cmd.Flags().String("asset", "", "only trades whose asset contains this text")
	cmd.Flags().String("outcome", "", "win or loss (closed trades only)")
	cmd.Flags().String("id", "", "trade id or id range, e.g. 7 or 4-9 (overrides other filters)")
}

func filterFromFlags(cmd *cobra.Command) (filter.Filter, error) {
	var f filter.Filter

	if s, _ := cmd.Flags().GetString("from"); strings.TrimSpace(s) != "" {
		d, err := parse.ParseDate(s)
		if err != nil {
			return f, errors.Wrapf(err, "--from %q", s)
		}
		f.Start = d
	}
	if s, _ := cmd.Flags().GetString("to"); strings.TrimSpace(s) != "" {
		d, err := parse.ParseDate(s)
		if err != nil {
			return f, errors.Wrapf(err, "--to %q", s)
		}
		f.End = d
	}
	f.Asset, _ = cmd.Flags().GetString("asset")

	switch s, _ := cmd.Flags().GetString("outcome"); strings.ToLower(strings.TrimSpace(s)) {
	case "":
		f.Outcome = filter.OutcomeAny
	case "win", "wins":
		f.Outcome = filter.OutcomeWin
	case "loss", "losses":
		f.Outcome = filter.OutcomeLoss
	default:
		return f, errors.NewValidationError("outcome", s, "must be win or loss")
	}

	f.TradeID, _ = cmd.Flags().GetString("id")
	return f, nil
}

func newListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journaled trades",
		Long:  "List trades, optionally restricted to a date range, asset, outcome or id range.",
		Example: `  tradebook list
  tradebook list --asset BTC --outcome win
  tradebook list --from 01/01/2024 --to 31/03/2024
  tradebook list --id 4-9`,
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
			if output.IsJSON() {
				return output.JSON(trades)
			}

			if len(trades) == 0 {
				if f.IsZero() {
					output.Info("No trades recorded yet.")
					output.Dim("Tip: record your first trade with 'tradebook add'.")
				} else {
					output.Info("No trades match the filter.")
				}
				return nil
			}

			table := NewTable(output, "#", "Date", "Asset", "Dir", "Lev", "Entry", "Exit", "Size", "P&L", "Notes")
			var openCount int
			var totalPnL float64
			for _, t := range trades {
				pnlCell := output.DimText("open")
				if t.Closed() {
					pnlCell = output.FormatPnL(t.PnL)
					totalPnL += t.PnL
				} else {
					openCount++
				}
				table.AddRow(
					strconv.Itoa(t.ID),
					FormatDate(t.Date),
					t.Asset,
					output.DirectionText(string(t.Direction)),
					t.Leverage,
					FormatPrice(t.EntryPrice),
					FormatPrice(t.ExitPrice),
					FormatSize(t.Size),
					pnlCell,
					TruncateString(t.Journal, 30),
				)
			}
			table.Render()

			output.Println()
			output.Printf("  %d trades (%d open, %d closed)   Net P&L: %s\n",
				len(trades), openCount, len(trades)-openCount, output.FormatPnL(totalPnL))
			return nil
		},
	}

	addFilterFlags(cmd)
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one trade in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireBook(app, output) {
				return nil
			}

			id, err := strconv.Atoi(args[0])
			if err != nil {
				output.Error("Invalid trade id %q", args[0])
				return errors.ErrTradeNotFound
			}
			t, ok := app.Book.Get(id)
			if !ok {
				output.Error("No trade #%d in the journal", id)
				return errors.ErrTradeNotFound
			}

			if output.IsJSON() {
				return output.JSON(t)
			}

			output.Bold("Trade #%d", t.ID)
			output.Printf("  Date:        %s\n", FormatDate(t.Date))
			output.Printf("  Asset:       %s\n", t.Asset)
			output.Printf("  Direction:   %s\n", output.DirectionText(string(t.Direction)))
			if t.Leverage != "" {
				output.Printf("  Leverage:    %s\n", t.Leverage)
			}
			output.Printf("  Entry:       %s\n", FormatPrice(t.EntryPrice))
			output.Printf("  Exit:        %s\n", FormatPrice(t.ExitPrice))
			output.Printf("  Stop Loss:   %s\n", FormatPrice(t.StopLoss))
			output.Printf("  Take Profit: %s\n", FormatPrice(t.TakeProfit))
			output.Printf("  Size:        %s\n", FormatSize(t.Size))
			output.Printf("  Status:      %s\n", t.Status)
			if t.Closed() {
				output.Printf("  P&L:         %s\n", output.FormatPnL(t.PnL))
			}
			if t.Journal != "" {
				output.Println()
				output.Bold("Journal")
				output.Printf("  %s\n", t.Journal)
			}
			if t.Analysis != "" {
				output.Println()
				output.Bold("AI Analysis")
				output.Printf("  %s\n", t.Analysis)
			}
			return nil
		},
	}
}

func newEditCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a trade",
		Long: `Edit fields of an existing trade. Only the flags you pass change.

Clearing the exit price with --clear-exit reopens the trade: its status
returns to open and its P&L is removed.`,
		Example: `  tradebook edit 3 --exit 43800
  tradebook edit 3 --clear-exit
  tradebook edit 5 --journal "late entry, chased the move"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireBook(app, output) {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				output.Error("Invalid trade id %q", args[0])
				return errors.ErrTradeNotFound
			}
			t, ok := app.Book.Get(id)
			if !ok {
				output.Error("No trade #%d in the journal", id)
				return errors.ErrTradeNotFound
			}

			t, dateChanged, problems := applyEditFlags(cmd, t)
			if len(problems) > 0 {
				for _, p := range problems {
					output.Error("%v", p)
				}
				return problems[0]
			}

			if err := app.Book.Update(ctx, t); err != nil {
				output.Error("Failed to update trade: %v", err)
				return err
			}
			logging.LogLedgerChange(app.Logger, "edit", id, t.Asset)

			if output.IsJSON() {
				updated, _ := app.Book.Get(t.ID)
				return output.JSON(updated)
			}
			output.Success("✓ Trade #%d updated", id)
			if dateChanged {
				output.Dim("Trades are renumbered by date; check 'tradebook list' for current ids.")
			}
			return nil
		},
	}

	addTradeFieldFlags(cmd)
	cmd.Flags().Bool("clear-exit", false, "remove the exit price and reopen the trade")
	return cmd
}

// applyEditFlags overlays changed flags onto an existing trade.
func applyEditFlags(cmd *cobra.Command, t models.Trade) (models.Trade, bool, []error) {
	var problems []error
	dateChanged := false

	invalid := func(field, value, msg string) {
		problems = append(problems, errors.NewValidationError(field, value, msg))
	}
	stringFlag := func(name string) (string, bool) {
		if !cmd.Flags().Changed(name) {
			return "", false
		}
		v, _ := cmd.Flags().GetString(name)
		return v, true
	}
	priceFlag := func(name string, dst *float64, required bool) {
		s, ok := stringFlag(name)
		if !ok {
			return
		}
		if strings.TrimSpace(s) == "" && !required {
			*dst = 0
			return
		}
		v, err := parse.ParseNumber(s)
		if err != nil || v <= 0 {
			invalid(name, s, "must be a positive number")
			return
		}
		*dst = v
	}

	if s, ok := stringFlag("date"); ok {
		d, err := parse.ParseDate(s)
		if err != nil {
			invalid("date", s, "not a recognizable date")
		} else {
			dateChanged = !d.Equal(t.Date)
			t.Date = d
		}
	}
	if s, ok := stringFlag("asset"); ok {
		if strings.TrimSpace(s) == "" {
			invalid("asset", s, "cannot be blank")
		} else {
			t.Asset = strings.TrimSpace(s)
		}
	}
	if s, ok := stringFlag("direction"); ok {
		d, err := parse.ParseDirection(s)
		if err != nil {
			invalid("direction", s, "long or short")
		} else {
			t.Direction = d
		}
	}
	priceFlag("entry", &t.EntryPrice, true)
	priceFlag("exit", &t.ExitPrice, false)
	priceFlag("size", &t.Size, true)
	priceFlag("stop-loss", &t.StopLoss, false)
	priceFlag("take-profit", &t.TakeProfit, false)
	if s, ok := stringFlag("leverage"); ok {
		t.Leverage = s
	}
	if s, ok := stringFlag("journal"); ok {
		t.Journal = s
	}
	if clear, _ := cmd.Flags().GetBool("clear-exit"); clear {
		t.ExitPrice = 0
	}

	t.Recalculate()
	return t, dateChanged, problems
}

func newDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireBook(app, output) {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				output.Error("Invalid trade id %q", args[0])
				return errors.ErrTradeNotFound
			}
			t, ok := app.Book.Get(id)
			if !ok {
				output.Error("No trade #%d in the journal", id)
				return errors.ErrTradeNotFound
			}

			yes, _ := cmd.Flags().GetBool("yes")
			if !yes && !confirm(cmd, fmt.Sprintf("Delete trade #%d (%s %s)? [y/N] ", t.ID, t.Direction, t.Asset)) {
				output.Info("Aborted.")
				return nil
			}

			if err := app.Book.Delete(ctx, id); err != nil {
				output.Error("Failed to delete trade: %v", err)
				return err
			}
			logging.LogLedgerChange(app.Logger, "delete", id, t.Asset)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"deleted": id})
			}
			output.Success("✓ Trade #%d deleted", id)
			output.Dim("Remaining trades were renumbered by date.")
			return nil
		},
	}

	cmd.Flags().Bool("yes", false, "skip the confirmation prompt")
	return cmd
}

// confirm asks a yes/no question on the command's input stream.
func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func newCapitalCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "capital [amount]",
		Short: "Show or set the initial capital",
		Long:  "Show the journal's initial capital, or set it to a new amount. The equity curve is computed from this baseline.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireBook(app, output) {
				return nil
			}

			if len(args) == 0 {
				if output.IsJSON() {
					return output.JSON(map[string]float64{"initialCapital": app.Book.Capital()})
				}
				output.Printf("Initial capital: %s\n", FormatMoney(app.Book.Capital()))
				return nil
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			v, err := parse.ParseNumber(args[0])
			if err != nil {
				output.Error("Invalid amount %q", args[0])
				return err
			}
			if err := app.Book.SetCapital(ctx, v); err != nil {
				output.Error("%v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]float64{"initialCapital": v})
			}
			output.Success("✓ Initial capital set to %s", FormatMoney(v))
			return nil
		},
	}
}
