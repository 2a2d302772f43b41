package models

import "time"

// Trade represents one journaled derivatives trade.
//
// ID is a positional label: after every ledger mutation trades are re-sorted
// by date and renumbered 1..N, so an ID is only meaningful against the
// current ledger state. Optional prices use 0 as "absent"; prices must be
// strictly positive to count as set.
type Trade struct {
	ID         int         `json:"id"`
	Date       time.Time   `json:"date"`
	Asset      string      `json:"asset"`
	Direction  Direction   `json:"direction"`
	EntryPrice float64     `json:"entryPrice"`
	ExitPrice  float64     `json:"exitPrice,omitempty"`
	Size       float64     `json:"size"`
	Leverage   string      `json:"leverage,omitempty"`
	StopLoss   float64     `json:"stopLoss,omitempty"`
	TakeProfit float64     `json:"takeProfit,omitempty"`
	Journal    string      `json:"journal,omitempty"`
	Analysis   string      `json:"analysis,omitempty"`
	Status     TradeStatus `json:"status"`
	PnL        float64     `json:"pnl,omitempty"`
}

// Recalculate derives Status and PnL from the exit price. A trade is closed
// iff its exit price is set; PnL is defined only for closed trades.
func (t *Trade) Recalculate() {
	if t.ExitPrice <= 0 {
		t.ExitPrice = 0
		t.Status = StatusOpen
		t.PnL = 0
		return
	}
	t.Status = StatusClosed
	if t.Direction == DirectionShort {
		t.PnL = (t.EntryPrice - t.ExitPrice) * t.Size
	} else {
		t.PnL = (t.ExitPrice - t.EntryPrice) * t.Size
	}
}

// Closed reports whether the trade has a realized result.
func (t *Trade) Closed() bool {
	return t.Status == StatusClosed
}

// Win reports whether the trade closed with a strictly positive PnL.
func (t *Trade) Win() bool {
	return t.Status == StatusClosed && t.PnL > 0
}

// Loss reports whether the trade closed with PnL <= 0. A break-even close
// counts as a loss.
func (t *Trade) Loss() bool {
	return t.Status == StatusClosed && t.PnL <= 0
}
