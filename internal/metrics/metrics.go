// Package metrics computes dashboard statistics from the trade book.
// Everything here is pure: trades in, numbers out, no state touched, which
// is what keeps the dashboard consistent under filtering.
package metrics

import (
	"fmt"

	"tradebook/internal/models"
)

// Point is one entry of a chart series.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Streak describes the run the book is currently on.
type Streak struct {
	Type   models.StreakType `json:"type"`
	Length int               `json:"length"`
}

// Dashboard holds every derived statistic the stats screen shows. Only
// closed trades participate in the numbers; open positions count toward
// OpenTrades and nothing else.
type Dashboard struct {
	TotalTrades  int `json:"totalTrades"`
	ClosedTrades int `json:"closedTrades"`
	OpenTrades   int `json:"openTrades"`
	Wins         int `json:"wins"`
	Losses       int `json:"losses"`

	WinRate      float64 `json:"winRate"`
	LossRate     float64 `json:"lossRate"`
	ProfitFactor float64 `json:"profitFactor"`
	AverageWin   float64 `json:"averageWin"`
	AverageLoss  float64 `json:"averageLoss"`
	GrossProfit  float64 `json:"grossProfit"`
	GrossLoss    float64 `json:"grossLoss"`
	NetPnL       float64 `json:"netPnl"`
	LargestWin   float64 `json:"largestWin"`
	LargestLoss  float64 `json:"largestLoss"`
	Expectancy   float64 `json:"expectancy"`

	MaxWinStreak  int    `json:"maxWinStreak"`
	MaxLossStreak int    `json:"maxLossStreak"`
	CurrentStreak Streak `json:"currentStreak"`

	// Cumulative PnL and equity series in book order, each led by a
	// synthetic "Start" point so a chart never renders empty.
	ChartData       []Point `json:"chartData"`
	EquityChartData []Point `json:"equityChartData"`
}

// Compute derives the dashboard for the given trades and starting capital.
// Trades must already be in book order (date ascending); the chart series
// follow that order. A break-even close counts as a loss throughout.
func Compute(trades []models.Trade, initialCapital float64) Dashboard {
	d := Dashboard{
		TotalTrades:     len(trades),
		ChartData:       []Point{{Label: "Start", Value: 0}},
		EquityChartData: []Point{{Label: "Start", Value: initialCapital}},
	}

	cumulative := 0.0
	winRun, lossRun := 0, 0
	for _, t := range trades {
		if !t.Closed() {
			d.OpenTrades++
			continue
		}
		d.ClosedTrades++
		if t.PnL > 0 {
			d.Wins++
			d.GrossProfit += t.PnL
			if t.PnL > d.LargestWin {
				d.LargestWin = t.PnL
			}
			winRun++
			lossRun = 0
			if winRun > d.MaxWinStreak {
				d.MaxWinStreak = winRun
			}
		} else {
			d.Losses++
			d.GrossLoss += t.PnL
			if t.PnL < d.LargestLoss {
				d.LargestLoss = t.PnL
			}
			lossRun++
			winRun = 0
			if lossRun > d.MaxLossStreak {
				d.MaxLossStreak = lossRun
			}
		}

		cumulative += t.PnL
		label := fmt.Sprintf("#%d", t.ID)
		d.ChartData = append(d.ChartData, Point{Label: label, Value: cumulative})
		d.EquityChartData = append(d.EquityChartData, Point{Label: label, Value: initialCapital + cumulative})
	}

	d.NetPnL = d.GrossProfit + d.GrossLoss
	if d.ClosedTrades > 0 {
		d.WinRate = float64(d.Wins) / float64(d.ClosedTrades) * 100
		d.LossRate = float64(d.Losses) / float64(d.ClosedTrades) * 100
		d.Expectancy = d.NetPnL / float64(d.ClosedTrades)
	}
	if d.Wins > 0 {
		d.AverageWin = d.GrossProfit / float64(d.Wins)
	}
	if d.Losses > 0 {
		d.AverageLoss = d.GrossLoss / float64(d.Losses)
	}
	// A book with no losing money reports factor 0, not infinity.
	if d.GrossLoss != 0 {
		d.ProfitFactor = d.GrossProfit / -d.GrossLoss
	}
	d.CurrentStreak = currentStreak(trades)
	return d
}

// currentStreak scans backward from the most recent closed trade, counting
// consecutive closed trades with the same outcome. Open trades in between
// are skipped; a book with no closed trades has no streak at all.
func currentStreak(trades []models.Trade) Streak {
	s := Streak{Type: models.StreakNone}
	for i := len(trades) - 1; i >= 0; i-- {
		t := trades[i]
		if !t.Closed() {
			continue
		}
		if s.Type == models.StreakNone {
			if t.PnL > 0 {
				s.Type = models.StreakWin
			} else {
				s.Type = models.StreakLoss
			}
		}
		if (t.PnL > 0) != (s.Type == models.StreakWin) {
			break
		}
		s.Length++
	}
	return s
}

// CurrentLossStreak returns the length of the current streak when it is a
// losing one, else 0. The audit nudge keys off this.
func CurrentLossStreak(trades []models.Trade) int {
	if s := currentStreak(trades); s.Type == models.StreakLoss {
		return s.Length
	}
	return 0
}
