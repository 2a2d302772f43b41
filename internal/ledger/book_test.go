package ledger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tradebook/internal/errors"
	"tradebook/internal/models"
	"tradebook/internal/store"
)

func testBook(t *testing.T) (*Book, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	b, err := Open(context.Background(), mem, zerolog.Nop(), 10000)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	return b, mem
}

func tradeOn(day int, asset string, exit float64) models.Trade {
	return models.Trade{
		Date:       time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC),
		Asset:      asset,
		Direction:  models.DirectionLong,
		EntryPrice: 100,
		ExitPrice:  exit,
		Size:       1,
	}
}

func assertBookIDs(t *testing.T, b *Book, assets ...string) {
	t.Helper()
	trades := b.Trades()
	if len(trades) != len(assets) {
		t.Fatalf("book has %d trades, want %d", len(trades), len(assets))
	}
	for i, tr := range trades {
		if tr.ID != i+1 {
			t.Errorf("trades[%d].ID = %d, want %d", i, tr.ID, i+1)
		}
		if tr.Asset != assets[i] {
			t.Errorf("trades[%d].Asset = %q, want %q", i, tr.Asset, assets[i])
		}
	}
}

func TestAddKeepsDateOrder(t *testing.T) {
	b, _ := testBook(t)
	ctx := context.Background()

	if _, err := b.AddClosed(ctx, tradeOn(5, "LATE", 110)); err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddClosed(ctx, tradeOn(1, "EARLY", 110)); err != nil {
		t.Fatal(err)
	}
	stored, err := b.AddClosed(ctx, tradeOn(3, "MIDDLE", 110))
	if err != nil {
		t.Fatal(err)
	}

	assertBookIDs(t, b, "EARLY", "MIDDLE", "LATE")
	if stored.ID != 2 {
		t.Errorf("returned trade ID = %d, want 2 (its position after renumbering)", stored.ID)
	}
}

func TestEqualDatesKeepInsertionOrder(t *testing.T) {
	b, _ := testBook(t)
	ctx := context.Background()

	for _, asset := range []string{"A", "B", "C"} {
		if _, err := b.AddClosed(ctx, tradeOn(7, asset, 110)); err != nil {
			t.Fatal(err)
		}
	}
	assertBookIDs(t, b, "A", "B", "C")
}

func TestAddOpenDiscardsExit(t *testing.T) {
	b, _ := testBook(t)

	candidate := tradeOn(1, "BTC", 140)
	stored, err := b.AddOpen(context.Background(), candidate)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Closed() || stored.ExitPrice != 0 || stored.PnL != 0 {
		t.Errorf("AddOpen stored %+v, want an open trade", stored)
	}
}

func TestUpdateMovesTradeOnDateChange(t *testing.T) {
	b, _ := testBook(t)
	ctx := context.Background()

	b.AddClosed(ctx, tradeOn(1, "A", 110))
	b.AddClosed(ctx, tradeOn(2, "B", 110))
	b.AddClosed(ctx, tradeOn(3, "C", 110))

	// Move A past C.
	a, _ := b.Get(1)
	a.Date = time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)
	if err := b.Update(ctx, a); err != nil {
		t.Fatal(err)
	}
	assertBookIDs(t, b, "B", "C", "A")
}

func TestUpdateClearedExitReopensTrade(t *testing.T) {
	b, _ := testBook(t)
	ctx := context.Background()

	b.AddClosed(ctx, tradeOn(1, "BTC", 120))
	tr, _ := b.Get(1)
	if !tr.Closed() {
		t.Fatal("setup: trade should start closed")
	}

	tr.ExitPrice = 0
	if err := b.Update(ctx, tr); err != nil {
		t.Fatal(err)
	}
	got, _ := b.Get(1)
	if got.Closed() || got.PnL != 0 {
		t.Errorf("after clearing exit: %+v, want open with zero PnL", got)
	}
}

func TestUpdateUnknownIDIsRejected(t *testing.T) {
	b, _ := testBook(t)
	b.AddClosed(context.Background(), tradeOn(1, "BTC", 110))

	err := b.Update(context.Background(), models.Trade{ID: 42, Date: time.Now(), Asset: "X"})
	if !errors.Is(err, errors.ErrTradeNotFound) {
		t.Errorf("Update(unknown) = %v, want ErrTradeNotFound", err)
	}
	if b.Len() != 1 {
		t.Errorf("book length changed to %d", b.Len())
	}
}

func TestDeleteRenumbers(t *testing.T) {
	b, _ := testBook(t)
	ctx := context.Background()

	b.AddClosed(ctx, tradeOn(1, "A", 110))
	b.AddClosed(ctx, tradeOn(2, "B", 110))
	b.AddClosed(ctx, tradeOn(3, "C", 110))

	if err := b.Delete(ctx, 2); err != nil {
		t.Fatal(err)
	}
	assertBookIDs(t, b, "A", "C")

	if err := b.Delete(ctx, 9); !errors.Is(err, errors.ErrTradeNotFound) {
		t.Errorf("Delete(unknown) = %v, want ErrTradeNotFound", err)
	}
}

func TestReplaceAllRecomputesEverything(t *testing.T) {
	b, _ := testBook(t)
	ctx := context.Background()
	b.AddClosed(ctx, tradeOn(1, "OLD", 110))

	incoming := []models.Trade{
		{ID: 99, Date: time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC), Asset: "TWO",
			Direction: models.DirectionShort, EntryPrice: 100, ExitPrice: 90, Size: 2,
			Status: models.StatusOpen, PnL: -555},
		{ID: 42, Date: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), Asset: "ONE",
			Direction: models.DirectionLong, EntryPrice: 100, ExitPrice: 110, Size: 1},
	}
	if err := b.ReplaceAll(ctx, incoming, 2500); err != nil {
		t.Fatal(err)
	}

	assertBookIDs(t, b, "ONE", "TWO")
	if b.Capital() != 2500 {
		t.Errorf("capital = %v, want 2500", b.Capital())
	}
	two, _ := b.Get(2)
	if !two.Closed() || two.PnL != 20 {
		t.Errorf("stored status and PnL must be recomputed, got %+v", two)
	}
}

func TestSetCapital(t *testing.T) {
	b, _ := testBook(t)

	if err := b.SetCapital(context.Background(), -1); err == nil {
		t.Error("negative capital should be rejected")
	} else {
		var vErr *errors.ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("error type = %T, want ValidationError", err)
		}
	}
	if b.Capital() != 10000 {
		t.Errorf("capital changed to %v after rejected set", b.Capital())
	}

	if err := b.SetCapital(context.Background(), 0); err != nil {
		t.Errorf("zero capital should be allowed: %v", err)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	first, err := Open(ctx, mem, zerolog.Nop(), 10000)
	if err != nil {
		t.Fatal(err)
	}
	first.AddClosed(ctx, tradeOn(2, "BTC", 110))
	first.AddOpen(ctx, tradeOn(4, "ETH", 0))
	first.SetCapital(ctx, 5000)
	s, _ := first.AddStrategy(ctx, "breakout", "wait for the retest")
	first.SetActiveStrategy(ctx, s.ID)
	first.AppendAudit(ctx, models.Audit{ID: "audit-1", Date: time.Now().UTC(),
		Parameters: models.AuditParameters{Method: models.AuditLastN, TradeCount: 2},
		Result:     "solid execution"})
	first.DismissStreakNudge(ctx, 3)

	second, err := Open(ctx, mem, zerolog.Nop(), 999)
	if err != nil {
		t.Fatal(err)
	}
	assertBookIDs(t, second, "BTC", "ETH")
	if second.Capital() != 5000 {
		t.Errorf("capital = %v, want persisted 5000", second.Capital())
	}
	active, ok := second.ActiveStrategy()
	if !ok || active.Name != "breakout" {
		t.Errorf("active strategy = %+v (%v), want breakout", active, ok)
	}
	if audits := second.Audits(); len(audits) != 1 || audits[0].Result != "solid execution" {
		t.Errorf("audits = %+v", audits)
	}
	if second.DismissedStreak() != 3 {
		t.Errorf("dismissed streak = %d, want 3", second.DismissedStreak())
	}
}

func TestOpenEmptyStoreUsesDefaults(t *testing.T) {
	b, _ := testBook(t)
	if b.Len() != 0 || b.Capital() != 10000 {
		t.Errorf("fresh book = %d trades, capital %v", b.Len(), b.Capital())
	}
	if _, ok := b.ActiveStrategy(); ok {
		t.Error("fresh book should have no active strategy")
	}
}

func TestOpenRejectsCorruptState(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	mem.Save(ctx, store.KeyTrades, []byte("{not json"))

	if _, err := Open(ctx, mem, zerolog.Nop(), 10000); err == nil {
		t.Error("Open should fail on undecodable state instead of overwriting it")
	}
}

// brokenStore fails every Save so write-path errors can be observed.
type brokenStore struct {
	*store.Memory
}

func (s *brokenStore) Save(_ context.Context, _ string, _ []byte) error {
	return fmt.Errorf("disk full")
}

func TestSaveFailureSurfacesAsDatabaseError(t *testing.T) {
	ctx := context.Background()
	b, err := Open(ctx, &brokenStore{store.NewMemory()}, zerolog.Nop(), 10000)
	if err != nil {
		t.Fatal(err)
	}

	_, err = b.AddClosed(ctx, tradeOn(1, "BTC", 110))
	if !errors.Is(err, errors.ErrDatabaseError) {
		t.Errorf("AddClosed with failing store = %v, want ErrDatabaseError", err)
	}
}

func TestRestoreReplacesWholeJournal(t *testing.T) {
	b, mem := testBook(t)
	ctx := context.Background()
	b.AddClosed(ctx, tradeOn(1, "GONE", 110))
	old, _ := b.AddStrategy(ctx, "old", "text")
	b.SetActiveStrategy(ctx, old.ID)

	trades := []models.Trade{tradeOn(9, "KEPT", 130)}
	strategies := []models.Strategy{{ID: "s-1", Name: "restored", Content: "ride the trend"}}
	if err := b.Restore(ctx, trades, 7777, strategies, "s-1"); err != nil {
		t.Fatal(err)
	}

	assertBookIDs(t, b, "KEPT")
	if b.Capital() != 7777 {
		t.Errorf("capital = %v, want 7777", b.Capital())
	}
	active, ok := b.ActiveStrategy()
	if !ok || active.ID != "s-1" {
		t.Errorf("active strategy = %+v (%v), want s-1", active, ok)
	}

	reopened, err := Open(ctx, mem, zerolog.Nop(), 10000)
	if err != nil {
		t.Fatal(err)
	}
	assertBookIDs(t, reopened, "KEPT")
	if _, ok := reopened.ActiveStrategy(); !ok {
		t.Error("restored active strategy should persist")
	}
}
