package ai

import (
	"fmt"
	"strings"

	"tradebook/internal/models"
)

const analyzeSystemPrompt = `You are a trading coach reviewing one derivatives trade from a private journal. Judge the setup quality, the risk taken and the outcome. Be direct and concrete. Three short paragraphs at most, no praise padding.`

func analyzePrompt(t models.Trade) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Trade #%d\n", t.ID)
	fmt.Fprintf(&b, "Date: %s\n", t.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "Asset: %s\n", t.Asset)
	fmt.Fprintf(&b, "Direction: %s\n", t.Direction)
	if t.Leverage != "" {
		fmt.Fprintf(&b, "Leverage: %s\n", t.Leverage)
	}
	fmt.Fprintf(&b, "Entry: %g\n", t.EntryPrice)
	if t.Closed() {
		fmt.Fprintf(&b, "Exit: %g\n", t.ExitPrice)
		fmt.Fprintf(&b, "PnL: %g\n", t.PnL)
	} else {
		b.WriteString("Position still open\n")
	}
	if t.StopLoss > 0 {
		fmt.Fprintf(&b, "Stop loss: %g\n", t.StopLoss)
	}
	if t.TakeProfit > 0 {
		fmt.Fprintf(&b, "Take profit: %g\n", t.TakeProfit)
	}
	fmt.Fprintf(&b, "Size: %g\n", t.Size)
	if t.Journal != "" {
		fmt.Fprintf(&b, "Journal notes: %s\n", t.Journal)
	}
	return b.String()
}

const auditSystemPrompt = `You are auditing a derivatives trading journal. Look for repeated mistakes, position sizing discipline and whether the trades actually follow the stated strategy. Answer in markdown with the sections Overview, Patterns, Risk and Recommendations.`

func auditPrompt(trades []models.Trade, strategy *models.Strategy) string {
	var b strings.Builder
	if strategy != nil {
		fmt.Fprintf(&b, "The trader's active strategy is %q:\n%s\n\n", strategy.Name, strategy.Content)
	}
	fmt.Fprintf(&b, "Trades under review (%d):\n", len(trades))
	for _, t := range trades {
		fmt.Fprintf(&b, "#%d %s %s %s entry %g", t.ID, t.Date.Format("2006-01-02"), t.Asset, t.Direction, t.EntryPrice)
		if t.Closed() {
			fmt.Fprintf(&b, " exit %g pnl %g", t.ExitPrice, t.PnL)
		} else {
			b.WriteString(" open")
		}
		fmt.Fprintf(&b, " size %g", t.Size)
		if t.Journal != "" {
			fmt.Fprintf(&b, " | %s", t.Journal)
		}
		b.WriteString("\n")
	}
	return b.String()
}

const suggestSystemPrompt = `You propose one concrete derivatives setup from chart screenshots and a written strategy. Reply with a single JSON object shaped exactly like {"direction": "LONG" or "SHORT", "orderType": "market" or "limit", "entry": number, "minEntry": number, "maxEntry": number, "stopLoss": number, "takeProfit": number, "invalidation": string, "rationale": string} and nothing else.`

func suggestPrompt(req SuggestRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Asset: %s\n", req.Asset)
	if req.StrategyText != "" {
		fmt.Fprintf(&b, "Strategy to trade by:\n%s\n", req.StrategyText)
	} else {
		b.WriteString("No written strategy; use plain price action.\n")
	}
	return b.String()
}
