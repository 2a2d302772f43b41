package models

import "time"

// Strategy represents a written trading strategy. Strategies keep their
// generated IDs forever; unlike trades they are never renumbered.
type Strategy struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// AuditMethod identifies how the trades for an audit were selected.
type AuditMethod string

const (
	AuditLastN     AuditMethod = "lastN"
	AuditDateRange AuditMethod = "dateRange"
	AuditIDRange   AuditMethod = "idRange"
)

// AuditParameters records the selection an audit ran with, for display only.
// Replaying an audit never re-resolves the selection.
type AuditParameters struct {
	Method     AuditMethod `json:"method"`
	TradeCount int         `json:"tradeCount"`
	Strategy   string      `json:"strategy,omitempty"`
}

// Audit is an immutable record of one AI portfolio review.
type Audit struct {
	ID         string          `json:"id"`
	Date       time.Time       `json:"date"`
	Parameters AuditParameters `json:"parameters"`
	Result     string          `json:"result"`
}
