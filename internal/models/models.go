// Package models provides domain models for the trade journal.
package models

// Direction represents the side of a derivatives trade.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// TradeStatus represents whether a trade is still open or has been closed.
// It is derived from the exit price, never set directly.
type TradeStatus string

const (
	StatusOpen   TradeStatus = "open"
	StatusClosed TradeStatus = "closed"
)

// StreakType classifies the run of most recent closed trades.
type StreakType string

const (
	StreakNone StreakType = "none"
	StreakWin  StreakType = "win"
	StreakLoss StreakType = "loss"
)
