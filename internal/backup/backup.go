// Package backup serializes the journal to a portable JSON snapshot and
// validates snapshots on the way back in. A restore is all or nothing: a
// document with any shape problem is rejected before the book is touched.
package backup

import (
	"encoding/json"
	"strings"
	"time"

	"tradebook/internal/errors"
	"tradebook/internal/models"
)

// Snapshot is the portable journal document. Audit history is deliberately
// not part of it; audits live only in local state.
type Snapshot struct {
	Trades           []models.Trade    `json:"trades"`
	InitialCapital   float64           `json:"initialCapital"`
	Strategies       []models.Strategy `json:"strategies"`
	ActiveStrategyID *string           `json:"activeStrategyId"`
	Timestamp        string            `json:"timestamp"`
}

// ActiveID returns the active strategy reference, "" when none.
func (s *Snapshot) ActiveID() string {
	if s.ActiveStrategyID == nil {
		return ""
	}
	return *s.ActiveStrategyID
}

// Marshal produces the snapshot document for the current journal state,
// stamped with the current UTC time.
func Marshal(trades []models.Trade, capital float64, strategies []models.Strategy, activeID string) ([]byte, error) {
	snap := Snapshot{
		Trades:         trades,
		InitialCapital: capital,
		Strategies:     strategies,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}
	if snap.Trades == nil {
		snap.Trades = []models.Trade{}
	}
	if snap.Strategies == nil {
		snap.Strategies = []models.Strategy{}
	}
	if activeID != "" {
		snap.ActiveStrategyID = &activeID
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode snapshot")
	}
	return data, nil
}

// wireSnapshot holds every field as raw JSON so presence and type can be
// checked separately instead of letting absent fields decay to zero values.
type wireSnapshot struct {
	Trades           *json.RawMessage `json:"trades"`
	InitialCapital   *json.RawMessage `json:"initialCapital"`
	Strategies       *json.RawMessage `json:"strategies"`
	ActiveStrategyID *json.RawMessage `json:"activeStrategyId"`
	Timestamp        *json.RawMessage `json:"timestamp"`
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

// Unmarshal decodes and validates a snapshot document. All shape problems
// are collected into a single SnapshotError so the user sees everything
// wrong with the file at once.
func Unmarshal(data []byte) (*Snapshot, error) {
	var w wireSnapshot
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.NewSnapshotError("not a JSON snapshot object: " + err.Error())
	}

	var problems []string
	snap := &Snapshot{}

	switch {
	case w.Trades == nil || isNull(*w.Trades):
		problems = append(problems, `"trades" must be an array`)
	default:
		if err := json.Unmarshal(*w.Trades, &snap.Trades); err != nil {
			problems = append(problems, `"trades" must be an array of trades`)
		}
	}

	switch {
	case w.InitialCapital == nil || isNull(*w.InitialCapital):
		problems = append(problems, `"initialCapital" must be a number`)
	default:
		if err := json.Unmarshal(*w.InitialCapital, &snap.InitialCapital); err != nil {
			problems = append(problems, `"initialCapital" must be a number`)
		}
	}

	switch {
	case w.Strategies == nil || isNull(*w.Strategies):
		problems = append(problems, `"strategies" must be an array`)
	default:
		if err := json.Unmarshal(*w.Strategies, &snap.Strategies); err != nil {
			problems = append(problems, `"strategies" must be an array of strategies`)
		}
	}

	if w.ActiveStrategyID != nil && !isNull(*w.ActiveStrategyID) {
		if err := json.Unmarshal(*w.ActiveStrategyID, &snap.ActiveStrategyID); err != nil {
			problems = append(problems, `"activeStrategyId" must be a string or null`)
		}
	}

	switch {
	case w.Timestamp == nil || isNull(*w.Timestamp):
		problems = append(problems, `"timestamp" must be a string`)
	default:
		if err := json.Unmarshal(*w.Timestamp, &snap.Timestamp); err != nil {
			problems = append(problems, `"timestamp" must be a string`)
		}
	}

	if len(problems) > 0 {
		return nil, errors.NewSnapshotError(problems...)
	}
	return snap, nil
}
