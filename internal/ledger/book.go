// Package ledger owns the trade book: the ordered trade list, the starting
// capital, strategies and audit history, plus the renumbering invariant
// every mutation must restore before anyone reads the book again.
package ledger

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/rs/zerolog"

	"tradebook/internal/errors"
	"tradebook/internal/models"
	"tradebook/internal/store"
)

// Book is the single owner of journal state. It is deliberately not
// goroutine-safe: every mutation runs on the caller's goroutine, which is
// what makes the resequencing invariant easy to hold.
type Book struct {
	store  store.Store
	logger zerolog.Logger

	trades          []models.Trade
	capital         float64
	strategies      []models.Strategy
	activeStrategy  string
	audits          []models.Audit
	streakDismissed int
}

// Open loads journal state key by key. Missing keys fall back to an empty
// book with defaultCapital; a key that exists but will not decode is an
// error, so corrupt state is never silently overwritten.
func Open(ctx context.Context, st store.Store, logger zerolog.Logger, defaultCapital float64) (*Book, error) {
	b := &Book{
		store:      st,
		logger:     logger,
		capital:    defaultCapital,
		trades:     []models.Trade{},
		strategies: []models.Strategy{},
		audits:     []models.Audit{},
	}

	if err := b.loadKey(ctx, store.KeyTrades, &b.trades); err != nil {
		return nil, err
	}
	if err := b.loadKey(ctx, store.KeyInitialCapital, &b.capital); err != nil {
		return nil, err
	}
	if err := b.loadKey(ctx, store.KeyStrategies, &b.strategies); err != nil {
		return nil, err
	}
	var active *string
	if err := b.loadKey(ctx, store.KeyActiveStrategy, &active); err != nil {
		return nil, err
	}
	if active != nil {
		b.activeStrategy = *active
	}
	if err := b.loadKey(ctx, store.KeyAudits, &b.audits); err != nil {
		return nil, err
	}
	if err := b.loadKey(ctx, store.KeyStreakDismissed, &b.streakDismissed); err != nil {
		return nil, err
	}

	b.resequence()
	return b, nil
}

// resequence restores the book invariant after any mutation: stable sort by
// date ascending (equal dates keep their relative order), derived status
// and PnL recomputed, IDs renumbered 1..N. A trade ID is a position in the
// book, never a durable identity.
func (b *Book) resequence() {
	sort.SliceStable(b.trades, func(i, j int) bool {
		return b.trades[i].Date.Before(b.trades[j].Date)
	})
	for i := range b.trades {
		b.trades[i].ID = i + 1
		b.trades[i].Recalculate()
	}
}

// nextID returns max stored ID + 1, or 1 for an empty book. The value only
// lives until the resequence that follows the insert.
func (b *Book) nextID() int {
	max := 0
	for _, t := range b.trades {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}

// AddOpen inserts a trade with no exit yet; whatever exit, status or PnL
// the candidate carried is discarded.
func (b *Book) AddOpen(ctx context.Context, t models.Trade) (models.Trade, error) {
	t.ExitPrice = 0
	return b.insert(ctx, t)
}

// AddClosed inserts a trade together with its exit. If the exit turns out
// not to be set the trade simply lands open; inserts never fail on content.
func (b *Book) AddClosed(ctx context.Context, t models.Trade) (models.Trade, error) {
	return b.insert(ctx, t)
}

func (b *Book) insert(ctx context.Context, t models.Trade) (models.Trade, error) {
	t.ID = b.nextID()
	b.trades = append(b.trades, t)
	b.resequence()

	// The stable sort keeps the appended trade last within its date group,
	// so scanning from the tail the first equal date is the one just added.
	var stored models.Trade
	for i := len(b.trades) - 1; i >= 0; i-- {
		if b.trades[i].Date.Equal(t.Date) {
			stored = b.trades[i]
			break
		}
	}

	if err := b.saveTrades(ctx); err != nil {
		return models.Trade{}, err
	}
	b.logger.Debug().Int("id", stored.ID).Str("asset", stored.Asset).Msg("trade added")
	return stored, nil
}

// Update replaces the trade carrying the same ID. Editing the date can move
// the trade and renumber the whole book; clearing the exit price reopens
// the trade and discards its PnL. An unknown ID is a logged no-op returning
// ErrTradeNotFound, so a stale caller cannot corrupt the book.
func (b *Book) Update(ctx context.Context, t models.Trade) error {
	for i := range b.trades {
		if b.trades[i].ID == t.ID {
			b.trades[i] = t
			b.resequence()
			return b.saveTrades(ctx)
		}
	}
	b.logger.Warn().Int("id", t.ID).Msg("update for missing trade ignored")
	return errors.ErrTradeNotFound
}

// Delete removes the trade with the given ID and renumbers the rest.
func (b *Book) Delete(ctx context.Context, id int) error {
	for i := range b.trades {
		if b.trades[i].ID == id {
			b.trades = append(b.trades[:i], b.trades[i+1:]...)
			b.resequence()
			return b.saveTrades(ctx)
		}
	}
	b.logger.Warn().Int("id", id).Msg("delete for missing trade ignored")
	return errors.ErrTradeNotFound
}

// ReplaceAll swaps in a whole new trade list and capital in one step, the
// restore path. The incoming trades are resequenced, so their IDs and
// derived fields are recomputed rather than trusted.
func (b *Book) ReplaceAll(ctx context.Context, trades []models.Trade, capital float64) error {
	b.trades = append([]models.Trade{}, trades...)
	b.capital = capital
	b.resequence()
	if err := b.saveTrades(ctx); err != nil {
		return err
	}
	return b.saveKey(ctx, store.KeyInitialCapital, b.capital)
}

// Restore applies a validated snapshot wholesale: trades, capital,
// strategies and the active strategy reference.
func (b *Book) Restore(ctx context.Context, trades []models.Trade, capital float64, strategies []models.Strategy, activeID string) error {
	if err := b.ReplaceAll(ctx, trades, capital); err != nil {
		return err
	}
	b.strategies = append([]models.Strategy{}, strategies...)
	b.activeStrategy = activeID
	if err := b.saveStrategies(ctx); err != nil {
		return err
	}
	return b.saveActiveStrategy(ctx)
}

// Get returns the trade stored under id.
func (b *Book) Get(id int) (models.Trade, bool) {
	for _, t := range b.trades {
		if t.ID == id {
			return t, true
		}
	}
	return models.Trade{}, false
}

// Trades returns a copy of the book in date order.
func (b *Book) Trades() []models.Trade {
	return append([]models.Trade{}, b.trades...)
}

// Len returns the number of trades in the book.
func (b *Book) Len() int {
	return len(b.trades)
}

// Capital returns the starting capital the equity curve grows from.
func (b *Book) Capital() float64 {
	return b.capital
}

// SetCapital stores a new starting capital.
func (b *Book) SetCapital(ctx context.Context, v float64) error {
	if v < 0 {
		return errors.NewValidationError("initialCapital", v, "must not be negative")
	}
	b.capital = v
	return b.saveKey(ctx, store.KeyInitialCapital, b.capital)
}

func (b *Book) loadKey(ctx context.Context, key string, v interface{}) error {
	raw, ok, err := b.store.Load(ctx, key)
	if err != nil {
		return errors.Wrapf(errors.ErrDatabaseError, "load %s: %v", key, err)
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrapf(err, "failed to decode %s", key)
	}
	return nil
}

func (b *Book) saveKey(ctx context.Context, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", key)
	}
	if err := b.store.Save(ctx, key, raw); err != nil {
		return errors.Wrapf(errors.ErrDatabaseError, "save %s: %v", key, err)
	}
	return nil
}

func (b *Book) saveTrades(ctx context.Context) error {
	if b.trades == nil {
		b.trades = []models.Trade{}
	}
	return b.saveKey(ctx, store.KeyTrades, b.trades)
}
