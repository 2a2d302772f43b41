// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tradebook/internal/filter"
	"tradebook/internal/metrics"
)

// lossStreakNudgeAt is the losing-streak length that triggers the audit
// suggestion on the stats screen.
const lossStreakNudgeAt = 3

// addStatsCommands adds the performance dashboard command.
func addStatsCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newStatsCmd(app))
}

func newStatsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show performance metrics",
		Long: `Show the performance dashboard: win rate, profit factor, streaks and
the equity curve.

All metrics are computed from closed trades only; open positions are
counted but carry no P&L yet. The same filter flags as 'list' restrict
the dashboard to a subview of the journal.`,
		Example: `  tradebook stats
  tradebook stats --asset BTC
  tradebook stats --from 01/01/2024 --to 31/03/2024`,
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
			d := metrics.Compute(trades, app.Book.Capital())

			if output.IsJSON() {
				return output.JSON(d)
			}

			if !f.IsZero() {
				output.Dim("Filtered view: %d of %d trades", len(trades), app.Book.Len())
				output.Println()
			}

			output.Bold("Overview")
			output.Printf("  Total Trades:     %d\n", d.TotalTrades)
			output.Printf("  Closed / Open:    %d / %d\n", d.ClosedTrades, d.OpenTrades)
			output.Printf("  Wins / Losses:    %s / %s\n",
				output.Green(strconv.Itoa(d.Wins)), output.Red(strconv.Itoa(d.Losses)))
			output.Println()

			output.Bold("Performance")
			output.Printf("  Win Rate:         %.2f%%\n", d.WinRate)
			output.Printf("  Loss Rate:        %.2f%%\n", d.LossRate)
			output.Printf("  Profit Factor:    %.2f\n", d.ProfitFactor)
			output.Printf("  Expectancy:       %s\n", output.FormatPnL(d.Expectancy))
			output.Println()

			output.Bold("P&L")
			output.Printf("  Net P&L:          %s\n", output.FormatPnL(d.NetPnL))
			output.Printf("  Gross Profit:     %s\n", FormatMoney(d.GrossProfit))
			output.Printf("  Gross Loss:       %s\n", FormatMoney(d.GrossLoss))
			output.Printf("  Avg Win:          %s\n", FormatMoney(d.AverageWin))
			output.Printf("  Avg Loss:         %s\n", FormatMoney(d.AverageLoss))
			output.Printf("  Largest Win:      %s\n", FormatMoney(d.LargestWin))
			output.Printf("  Largest Loss:     %s\n", FormatMoney(d.LargestLoss))
			output.Println()

			output.Bold("Streaks")
			output.Printf("  Current:          %s\n", FormatStreak(d.CurrentStreak))
			output.Printf("  Longest Winning:  %d\n", d.MaxWinStreak)
			output.Printf("  Longest Losing:   %d\n", d.MaxLossStreak)
			output.Println()

			output.Bold("Capital")
			output.Printf("  Initial:          %s\n", FormatMoney(app.Book.Capital()))
			output.Printf("  Current Equity:   %s\n", FormatMoney(app.Book.Capital()+d.NetPnL))
			output.Println()

			output.Bold("Equity Curve")
			drawEquityCurve(output, d.EquityChartData)

			if f.IsZero() {
				maybeStreakNudge(output, app)
			}
			return nil
		},
	}

	addFilterFlags(cmd)
	return cmd
}

// drawEquityCurve renders the equity series as a small ASCII chart.
func drawEquityCurve(output *Output, series []metrics.Point) {
	if len(series) < 2 {
		output.Println("  No closed trades yet.")
		return
	}

	minEquity := series[0].Value
	maxEquity := series[0].Value
	for _, p := range series {
		if p.Value < minEquity {
			minEquity = p.Value
		}
		if p.Value > maxEquity {
			maxEquity = p.Value
		}
	}

	padding := (maxEquity - minEquity) * 0.1
	if padding == 0 {
		padding = 1
	}
	minEquity -= padding
	maxEquity += padding

	width := 40
	height := 8

	chart := make([][]rune, height)
	for i := range chart {
		chart[i] = make([]rune, width)
		for j := range chart[i] {
			chart[i][j] = ' '
		}
	}

	for i, p := range series {
		x := i * width / len(series)
		y := int((p.Value - minEquity) / (maxEquity - minEquity) * float64(height-1))
		if y >= 0 && y < height && x >= 0 && x < width {
			chart[height-1-y][x] = '█'
		}
	}

	for i := 0; i < height; i++ {
		label := strings.Repeat(" ", 10)
		if i == 0 {
			label = PadLeft(fmt.Sprintf("%.0f", maxEquity), 10)
		} else if i == height-1 {
			label = PadLeft(fmt.Sprintf("%.0f", minEquity), 10)
		}
		output.Printf("  %s │%s\n", label, string(chart[i]))
	}
	output.Printf("  %s └%s\n", strings.Repeat(" ", 10), strings.Repeat("─", width))
}

// maybeStreakNudge suggests an AI audit after a run of losing trades. The
// suggestion disappears once dismissed, until the streak grows further.
func maybeStreakNudge(output *Output, app *App) {
	streak := metrics.CurrentLossStreak(app.Book.Trades())
	if streak < lossStreakNudgeAt || streak == app.Book.DismissedStreak() {
		return
	}
	output.Println()
	output.Box("Losing streak", []string{
		fmt.Sprintf("You are %d losing trades deep.", streak),
		"Review the run with an AI audit:  tradebook audit --last " + strconv.Itoa(streak),
		"Hide this notice:                 tradebook audit dismiss",
	})
}
