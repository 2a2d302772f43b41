// Package filter selects subviews of the trade book without mutating it.
// Metrics computed on a filtered view therefore always agree with the view.
package filter

import (
	"strconv"
	"strings"
	"time"

	"tradebook/internal/models"
)

// Outcome restricts a filter to winning or losing closed trades. Open
// trades match neither: with no PnL they have no outcome yet.
type Outcome string

const (
	OutcomeAny  Outcome = ""
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
)

// Filter describes one subview of the book. The zero value selects
// everything. A non-blank TradeID expression overrides every other
// criterion.
type Filter struct {
	Start   time.Time
	End     time.Time
	Asset   string
	Outcome Outcome
	TradeID string
}

// IsZero reports whether the filter selects the whole book.
func (f Filter) IsZero() bool {
	return f.Start.IsZero() && f.End.IsZero() && f.Asset == "" &&
		f.Outcome == OutcomeAny && strings.TrimSpace(f.TradeID) == ""
}

// Apply returns the trades matching f in their original order. The input
// is never mutated; the result is always a fresh slice.
func Apply(trades []models.Trade, f Filter) []models.Trade {
	if strings.TrimSpace(f.TradeID) != "" {
		return applyIDFilter(trades, f.TradeID)
	}
	out := make([]models.Trade, 0, len(trades))
	for _, t := range trades {
		if matches(t, f) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t models.Trade, f Filter) bool {
	if !f.Start.IsZero() && t.Date.Before(startOfDay(f.Start)) {
		return false
	}
	if !f.End.IsZero() && t.Date.After(endOfDay(f.End)) {
		return false
	}
	if f.Asset != "" && !strings.Contains(strings.ToLower(t.Asset), strings.ToLower(f.Asset)) {
		return false
	}
	switch f.Outcome {
	case OutcomeWin:
		return t.Win()
	case OutcomeLoss:
		return t.Loss()
	}
	return true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999000000, time.UTC)
}

// applyIDFilter reads "7" or "4-9". Bounds must be reachable in the book,
// 1 <= lo <= hi <= max stored ID. Garbage, reversed or out-of-range bounds
// select nothing: a broken ID expression must never quietly fall back to
// the whole book.
func applyIDFilter(trades []models.Trade, expr string) []models.Trade {
	lo, hi, ok := parseIDRange(expr)
	if !ok {
		return []models.Trade{}
	}
	maxID := 0
	for _, t := range trades {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	if lo < 1 || hi > maxID || lo > hi {
		return []models.Trade{}
	}
	out := make([]models.Trade, 0, hi-lo+1)
	for _, t := range trades {
		if t.ID >= lo && t.ID <= hi {
			out = append(out, t)
		}
	}
	return out
}

func parseIDRange(expr string) (lo, hi int, ok bool) {
	expr = strings.TrimSpace(expr)
	if first, second, found := strings.Cut(expr, "-"); found {
		a, err1 := strconv.Atoi(strings.TrimSpace(first))
		b, err2 := strconv.Atoi(strings.TrimSpace(second))
		if err1 != nil || err2 != nil {
			return 0, 0, false
		}
		return a, b, true
	}
	n, err := strconv.Atoi(expr)
	if err != nil {
		return 0, 0, false
	}
	return n, n, true
}
