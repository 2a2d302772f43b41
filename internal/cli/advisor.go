// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tradebook/internal/ai"
	"tradebook/internal/errors"
	"tradebook/internal/filter"
	"tradebook/internal/logging"
	"tradebook/internal/metrics"
	"tradebook/internal/models"
)

// advisorTimeout bounds one AI call. Vision requests with three chart
// screenshots can take a while.
const advisorTimeout = 120 * time.Second

// addAdvisorCommands adds the AI advisor commands.
func addAdvisorCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newAuditCmd(app))
	rootCmd.AddCommand(newSuggestCmd(app))
}

func newAnalyzeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <id>",
		Short: "Get an AI review of one trade",
		Long: `Ask the AI advisor for a short coaching review of a single trade.

The review is stored on the trade, so repeating the command shows the
saved text without another API call. Use --refresh to request a new one.`,
		Example: `  tradebook analyze 7
  tradebook analyze 7 --refresh`,
		Args: cobra.ExactArgs(1),
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

			refresh, _ := cmd.Flags().GetBool("refresh")
			if t.Analysis != "" && !refresh {
				if output.IsJSON() {
					return output.JSON(map[string]interface{}{"id": t.ID, "analysis": t.Analysis, "cached": true})
				}
				output.Bold("AI Analysis of trade #%d (saved)", t.ID)
				output.Println()
				output.Println(t.Analysis)
				output.Dim("Use --refresh for a new review.")
				return nil
			}

			if !requireAdvisor(app, output) {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), advisorTimeout)
			defer cancel()

			started := time.Now()
			analysis, err := app.Advisor.AnalyzeTrade(ctx, t)
			logging.LogAdvisorCall(app.Logger, "analyze", time.Since(started), err)
			if err != nil {
				output.Error("Analysis failed: %v", err)
				output.Dim("The journal is unchanged; try again in a moment.")
				return err
			}

			t.Analysis = analysis
			if err := app.Book.Update(ctx, t); err != nil {
				output.Error("Failed to save analysis: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"id": t.ID, "analysis": analysis, "cached": false})
			}
			output.Bold("AI Analysis of trade #%d", t.ID)
			output.Println()
			output.Println(analysis)
			return nil
		},
	}

	cmd.Flags().Bool("refresh", false, "discard the saved analysis and request a new one")
	return cmd
}

func newAuditCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Run an AI audit over a stretch of the journal",
		Long: `Audit a stretch of the journal against your active strategy.

Select trades with --last, --from/--to or --ids; with no selection the
last 10 trades are audited. Every audit is kept; review past ones with
'audit list' and 'audit show'.`,
		Example: `  tradebook audit --last 5
  tradebook audit --from 01/03/2024 --to 31/03/2024
  tradebook audit --ids 12-20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireBook(app, output) || !requireAdvisor(app, output) {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), advisorTimeout)
			defer cancel()

			selection, params, err := auditSelection(cmd, app)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			if len(selection) == 0 {
				output.Warning("The selection matches no trades; nothing to audit.")
				return nil
			}

			var strategy *models.Strategy
			if s, ok := app.Book.ActiveStrategy(); ok {
				strategy = &s
				params.Strategy = s.Name
			} else {
				output.Dim("No active strategy; the audit reviews execution only.")
			}

			output.Info("Auditing %d trades...", len(selection))
			started := time.Now()
			result, err := app.Advisor.AuditTrades(ctx, selection, strategy)
			logging.LogAdvisorCall(app.Logger, "audit", time.Since(started), err)
			if err != nil {
				output.Error("Audit failed: %v", err)
				output.Dim("Nothing was recorded; try again in a moment.")
				return err
			}

			audit := models.Audit{
				ID:         uuid.NewString(),
				Date:       time.Now().UTC(),
				Parameters: params,
				Result:     result,
			}
			if err := app.Book.AppendAudit(ctx, audit); err != nil {
				output.Error("Failed to save audit: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(audit)
			}
			output.Bold("Audit %s", shortID(audit.ID))
			output.Println()
			output.Println(result)
			return nil
		},
	}

	cmd.Flags().Int("last", 0, "audit the last N trades")
	cmd.Flags().String("from", "", "audit trades on or after this date")
	cmd.Flags().String("to", "", "audit trades on or before this date")
	cmd.Flags().String("ids", "", "audit an id range, e.g. 12-20")

	cmd.AddCommand(newAuditListCmd(app))
	cmd.AddCommand(newAuditShowCmd(app))
	cmd.AddCommand(newAuditDismissCmd(app))
	return cmd
}

// auditSelection resolves the audit flags to a trade selection. Precedence:
// --ids, then --from/--to, then --last, defaulting to the last 10 trades.
func auditSelection(cmd *cobra.Command, app *App) ([]models.Trade, models.AuditParameters, error) {
	trades := app.Book.Trades()

	if ids, _ := cmd.Flags().GetString("ids"); strings.TrimSpace(ids) != "" {
		selected := filter.Apply(trades, filter.Filter{TradeID: ids})
		return selected, models.AuditParameters{Method: models.AuditIDRange, TradeCount: len(selected)}, nil
	}

	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")
	if strings.TrimSpace(fromStr) != "" || strings.TrimSpace(toStr) != "" {
		f, err := filterFromFlags(cmd)
		if err != nil {
			return nil, models.AuditParameters{}, err
		}
		selected := filter.Apply(trades, f)
		return selected, models.AuditParameters{Method: models.AuditDateRange, TradeCount: len(selected)}, nil
	}

	n, _ := cmd.Flags().GetInt("last")
	if n <= 0 {
		n = 10
	}
	if n > len(trades) {
		n = len(trades)
	}
	selected := trades[len(trades)-n:]
	return selected, models.AuditParameters{Method: models.AuditLastN, TradeCount: len(selected)}, nil
}

func newAuditListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List past audits",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireBook(app, output) {
				return nil
			}

			audits := app.Book.Audits()
			if output.IsJSON() {
				return output.JSON(audits)
			}
			if len(audits) == 0 {
				output.Info("No audits yet.")
				output.Dim("Tip: run one with 'tradebook audit --last 10'.")
				return nil
			}

			table := NewTable(output, "ID", "Date", "Method", "Trades", "Strategy")
			for _, a := range audits {
				table.AddRow(
					shortID(a.ID),
					a.Date.Format("02/01/2006 15:04"),
					string(a.Parameters.Method),
					strconv.Itoa(a.Parameters.TradeCount),
					a.Parameters.Strategy,
				)
			}
			table.Render()
			return nil
		},
	}
}

func newAuditShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <audit>",
		Short: "Show a past audit in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireBook(app, output) {
				return nil
			}

			a, ok := app.Book.AuditByID(args[0])
			if !ok {
				output.Error("No audit matches %q", args[0])
				return errors.Wrapf(errors.ErrAuditNotFound, "%q", args[0])
			}

			if output.IsJSON() {
				return output.JSON(a)
			}
			output.Bold("Audit %s", shortID(a.ID))
			output.Dim("%s, %s over %d trades", a.Date.Format("02/01/2006 15:04"), a.Parameters.Method, a.Parameters.TradeCount)
			if a.Parameters.Strategy != "" {
				output.Dim("Strategy: %s", a.Parameters.Strategy)
			}
			output.Println()
			output.Println(a.Result)
			return nil
		},
	}
}

func newAuditDismissCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss",
		Short: "Hide the losing-streak audit notice",
		Long:  "Hide the losing-streak notice on the stats screen. It returns if the streak grows further.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireBook(app, output) {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			streak := metrics.CurrentLossStreak(app.Book.Trades())
			if streak < lossStreakNudgeAt {
				output.Info("No losing-streak notice is showing.")
				return nil
			}
			if err := app.Book.DismissStreakNudge(ctx, streak); err != nil {
				output.Error("%v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]int{"dismissedStreak": streak})
			}
			output.Success("✓ Notice dismissed for the current %d-loss streak", streak)
			return nil
		},
	}
}

func newSuggestCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest <asset>",
		Short: "Ask the AI for a trade setup",
		Long: `Ask the AI advisor for a concrete setup on an asset, optionally from
chart screenshots on three timeframes. The suggestion is advice only;
nothing enters the journal until you record it with 'add'.`,
		Example: `  tradebook suggest BTCUSDT
  tradebook suggest ETHUSDT --chart-5m 5m.png --chart-15m 15m.png --chart-1h 1h.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireBook(app, output) || !requireAdvisor(app, output) {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), advisorTimeout)
			defer cancel()

			req := ai.SuggestRequest{Asset: strings.ToUpper(strings.TrimSpace(args[0]))}
			req.Chart5m, _ = cmd.Flags().GetString("chart-5m")
			req.Chart15m, _ = cmd.Flags().GetString("chart-15m")
			req.Chart1h, _ = cmd.Flags().GetString("chart-1h")
			if s, ok := app.Book.ActiveStrategy(); ok {
				req.StrategyText = s.Content
			}

			output.Info("Asking for a %s setup...", req.Asset)
			started := time.Now()
			suggestion, err := app.Advisor.SuggestSetup(ctx, req)
			logging.LogAdvisorCall(app.Logger, "suggest", time.Since(started), err)
			if err != nil {
				output.Error("Suggestion failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(suggestion)
			}
			showSuggestion(output, req.Asset, suggestion)
			return nil
		},
	}

	cmd.Flags().String("chart-5m", "", "path to a 5 minute chart screenshot")
	cmd.Flags().String("chart-15m", "", "path to a 15 minute chart screenshot")
	cmd.Flags().String("chart-1h", "", "path to a 1 hour chart screenshot")
	return cmd
}

func showSuggestion(output *Output, asset string, s *ai.Suggestion) {
	lines := []string{
		fmt.Sprintf("Direction:   %s", output.DirectionText(strings.ToUpper(s.Direction))),
		fmt.Sprintf("Order:       %s", s.OrderType),
	}
	if s.MinEntry > 0 && s.MaxEntry > 0 {
		lines = append(lines, fmt.Sprintf("Entry zone:  %s - %s", FormatPrice(s.MinEntry), FormatPrice(s.MaxEntry)))
	} else if s.Entry > 0 {
		lines = append(lines, fmt.Sprintf("Entry:       %s", FormatPrice(s.Entry)))
	}
	if s.StopLoss > 0 {
		lines = append(lines, fmt.Sprintf("Stop Loss:   %s", FormatPrice(s.StopLoss)))
	}
	if s.TakeProfit > 0 {
		lines = append(lines, fmt.Sprintf("Take Profit: %s", FormatPrice(s.TakeProfit)))
	}
	output.Box(asset+" setup", lines)
	if s.Invalidation != "" {
		output.Println()
		output.Bold("Invalidation")
		output.Printf("  %s\n", s.Invalidation)
	}
	if s.Rationale != "" {
		output.Println()
		output.Bold("Rationale")
		output.Printf("  %s\n", s.Rationale)
	}
}
