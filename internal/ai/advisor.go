// Package ai talks to the AI collaborator behind the journal: single-trade
// analysis, portfolio audits and setup suggestions. Everything here is a
// fallible network call; the trade book is never touched from this package.
package ai

import (
	"context"

	"tradebook/internal/models"
)

// SuggestRequest asks for a setup on one asset. The chart fields are paths
// to screenshot files for the 5m, 15m and 1h timeframes; any may be empty.
type SuggestRequest struct {
	Asset        string
	StrategyText string
	Chart5m      string
	Chart15m     string
	Chart1h      string
}

// Suggestion is the structured setup the advisor proposes. It is advice
// only; nothing is entered into the book until the user logs it.
type Suggestion struct {
	Direction    string  `json:"direction"`
	OrderType    string  `json:"orderType"`
	Entry        float64 `json:"entry"`
	MinEntry     float64 `json:"minEntry"`
	MaxEntry     float64 `json:"maxEntry"`
	StopLoss     float64 `json:"stopLoss"`
	TakeProfit   float64 `json:"takeProfit"`
	Invalidation string  `json:"invalidation"`
	Rationale    string  `json:"rationale"`
}

// Advisor is the AI collaborator port. Calls run as long as the caller's
// context allows; implementations decide how transient failures are retried.
type Advisor interface {
	AnalyzeTrade(ctx context.Context, t models.Trade) (string, error)
	AuditTrades(ctx context.Context, trades []models.Trade, strategy *models.Strategy) (string, error)
	SuggestSetup(ctx context.Context, req SuggestRequest) (*Suggestion, error)
}
