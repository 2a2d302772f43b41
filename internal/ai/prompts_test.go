package ai

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"tradebook/internal/models"
)

func promptTrade(exit float64) models.Trade {
	t := models.Trade{
		ID:         3,
		Date:       time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		Asset:      "BTC",
		Direction:  models.DirectionLong,
		EntryPrice: 62500.5,
		ExitPrice:  exit,
		Size:       0.5,
		Leverage:   "10",
		StopLoss:   61900,
		Journal:    "seguí el plan",
	}
	t.Recalculate()
	return t
}

func TestAnalyzePromptClosedTrade(t *testing.T) {
	p := analyzePrompt(promptTrade(63100))

	for _, want := range []string{
		"Trade #3", "Date: 2024-03-15", "Asset: BTC", "Direction: LONG",
		"Leverage: 10", "Entry: 62500.5", "Exit: 63100", "PnL: 299.75",
		"Stop loss: 61900", "Size: 0.5", "Journal notes: seguí el plan",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("analyze prompt missing %q:\n%s", want, p)
		}
	}
	if strings.Contains(p, "Take profit") {
		t.Error("unset take profit should not appear")
	}
}

func TestAnalyzePromptOpenTrade(t *testing.T) {
	p := analyzePrompt(promptTrade(0))

	if !strings.Contains(p, "Position still open") {
		t.Errorf("open trade prompt missing open marker:\n%s", p)
	}
	if strings.Contains(p, "Exit:") || strings.Contains(p, "PnL:") {
		t.Error("open trade must not report exit or PnL")
	}
}

func TestAuditPrompt(t *testing.T) {
	trades := []models.Trade{promptTrade(63100), promptTrade(0)}
	trades[1].ID = 4

	strategy := &models.Strategy{Name: "breakout", Content: "wait for the retest"}
	p := auditPrompt(trades, strategy)

	if !strings.Contains(p, `active strategy is "breakout"`) || !strings.Contains(p, "wait for the retest") {
		t.Errorf("audit prompt missing strategy:\n%s", p)
	}
	if !strings.Contains(p, "Trades under review (2):") {
		t.Errorf("audit prompt missing count:\n%s", p)
	}
	if !strings.Contains(p, "#4 2024-03-15 BTC LONG entry 62500.5 open") {
		t.Errorf("audit prompt missing open trade line:\n%s", p)
	}

	executionOnly := auditPrompt(trades[:1], nil)
	if strings.Contains(executionOnly, "active strategy") {
		t.Error("prompt without strategy should not mention one")
	}
}

func TestSuggestPrompt(t *testing.T) {
	withStrategy := suggestPrompt(SuggestRequest{Asset: "ETH", StrategyText: "fade the extremes"})
	if !strings.Contains(withStrategy, "Asset: ETH") || !strings.Contains(withStrategy, "fade the extremes") {
		t.Errorf("suggest prompt = %q", withStrategy)
	}

	bare := suggestPrompt(SuggestRequest{Asset: "ETH"})
	if !strings.Contains(bare, "No written strategy") {
		t.Errorf("suggest prompt without strategy = %q", bare)
	}
}

func TestSuggestionDecodesDocumentedShape(t *testing.T) {
	// The reply shape promised in the system prompt must land in the struct.
	reply := `{
		"direction": "LONG", "orderType": "limit",
		"entry": 62000, "minEntry": 61800, "maxEntry": 62200,
		"stopLoss": 61000, "takeProfit": 65000,
		"invalidation": "close below 61k",
		"rationale": "retest of broken range high"
	}`

	var s Suggestion
	if err := json.Unmarshal([]byte(reply), &s); err != nil {
		t.Fatalf("documented shape does not decode: %v", err)
	}
	if s.Direction != "LONG" || s.OrderType != "limit" {
		t.Errorf("decoded %+v", s)
	}
	if s.MinEntry != 61800 || s.MaxEntry != 62200 || s.StopLoss != 61000 {
		t.Errorf("decoded %+v", s)
	}
	if s.Invalidation == "" || s.Rationale == "" {
		t.Errorf("decoded %+v", s)
	}
}
