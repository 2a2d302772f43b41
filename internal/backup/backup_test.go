package backup

import (
	"strings"
	"testing"
	"time"

	"tradebook/internal/errors"
	"tradebook/internal/models"
)

func sampleTrades() []models.Trade {
	t1 := models.Trade{
		ID:         1,
		Date:       time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		Asset:      "BTC",
		Direction:  models.DirectionLong,
		EntryPrice: 62500.5,
		ExitPrice:  63100,
		Size:       0.5,
		Journal:    "seguí el plan",
	}
	t1.Recalculate()
	t2 := models.Trade{
		ID:         2,
		Date:       time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC),
		Asset:      "ETH",
		Direction:  models.DirectionShort,
		EntryPrice: 2400,
		Size:       2,
	}
	t2.Recalculate()
	return []models.Trade{t1, t2}
}

func TestSnapshotRoundTrip(t *testing.T) {
	trades := sampleTrades()
	strategies := []models.Strategy{{ID: "s-1", Name: "breakout", Content: "wait for the retest"}}

	data, err := Marshal(trades, 5000, strategies, "s-1")
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}

	snap, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if len(snap.Trades) != 2 {
		t.Fatalf("round trip kept %d trades, want 2", len(snap.Trades))
	}
	if !snap.Trades[0].Date.Equal(trades[0].Date) || snap.Trades[0].PnL != trades[0].PnL {
		t.Errorf("trade 1 = %+v, want %+v", snap.Trades[0], trades[0])
	}
	if snap.Trades[1].Closed() {
		t.Error("open trade should stay open through the round trip")
	}
	if snap.InitialCapital != 5000 {
		t.Errorf("capital = %v, want 5000", snap.InitialCapital)
	}
	if len(snap.Strategies) != 1 || snap.Strategies[0].Name != "breakout" {
		t.Errorf("strategies = %+v", snap.Strategies)
	}
	if snap.ActiveID() != "s-1" {
		t.Errorf("active ID = %q, want s-1", snap.ActiveID())
	}
	if _, err := time.Parse(time.RFC3339, snap.Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", snap.Timestamp, err)
	}
}

func TestMarshalEmptyJournal(t *testing.T) {
	data, err := Marshal(nil, 10000, nil, "")
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, `"trades": []`) {
		t.Error("nil trades should encode as an empty array")
	}
	if !strings.Contains(out, `"activeStrategyId": null`) {
		t.Error("no active strategy should encode as null")
	}

	snap, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if snap.ActiveID() != "" {
		t.Errorf("active ID = %q, want empty", snap.ActiveID())
	}
}

func TestUnmarshalShapeProblems(t *testing.T) {
	valid := `"trades": [], "initialCapital": 100, "strategies": [], "timestamp": "2024-01-01T00:00:00Z"`

	testCases := []struct {
		name    string
		data    string
		problem string
	}{
		{"not json", "definitely not json", "not a JSON snapshot object"},
		{"array document", "[1,2,3]", "not a JSON snapshot object"},
		{"trades missing", `{"initialCapital": 100, "strategies": [], "timestamp": "x"}`, `"trades" must be an array`},
		{"trades null", `{"trades": null, "initialCapital": 100, "strategies": [], "timestamp": "x"}`, `"trades" must be an array`},
		{"trades wrong type", `{"trades": {}, "initialCapital": 100, "strategies": [], "timestamp": "x"}`, `"trades" must be an array`},
		{"capital string", `{"trades": [], "initialCapital": "much", "strategies": [], "timestamp": "x"}`, `"initialCapital" must be a number`},
		{"strategies number", `{"trades": [], "initialCapital": 1, "strategies": 7, "timestamp": "x"}`, `"strategies" must be an array`},
		{"timestamp number", `{"trades": [], "initialCapital": 1, "strategies": [], "timestamp": 99}`, `"timestamp" must be a string`},
		{"active id number", `{` + valid + `, "activeStrategyId": 123}`, `"activeStrategyId" must be a string or null`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			snap, err := Unmarshal([]byte(tc.data))
			if snap != nil {
				t.Fatal("an invalid snapshot must restore nothing")
			}
			if !errors.Is(err, errors.ErrInvalidSnapshot) {
				t.Fatalf("error = %v, want ErrInvalidSnapshot", err)
			}
			if !strings.Contains(err.Error(), tc.problem) {
				t.Errorf("error %q should mention %q", err, tc.problem)
			}
		})
	}
}

func TestUnmarshalCollectsEveryProblem(t *testing.T) {
	_, err := Unmarshal([]byte(`{}`))
	if err == nil {
		t.Fatal("empty object should be rejected")
	}
	var snapErr *errors.SnapshotError
	if !errors.As(err, &snapErr) {
		t.Fatalf("error type = %T, want SnapshotError", err)
	}
	if len(snapErr.Problems) != 4 {
		t.Errorf("reported %d problems, want 4: %v", len(snapErr.Problems), snapErr.Problems)
	}
	for _, field := range []string{"trades", "initialCapital", "strategies", "timestamp"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error %q should mention %q", err, field)
		}
	}
}

func TestUnmarshalAcceptsNullActiveStrategy(t *testing.T) {
	doc := `{"trades": [], "initialCapital": 0, "strategies": [],
		"activeStrategyId": null, "timestamp": "2024-01-01T00:00:00Z"}`

	snap, err := Unmarshal([]byte(doc))
	if err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if snap.ActiveID() != "" {
		t.Errorf("active ID = %q, want empty", snap.ActiveID())
	}
}
