package ledger

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"tradebook/internal/errors"
	"tradebook/internal/models"
	"tradebook/internal/store"
)

// AddStrategy stores a named strategy and returns it with its generated ID.
// Strategy IDs are durable, unlike trade IDs.
func (b *Book) AddStrategy(ctx context.Context, name, content string) (models.Strategy, error) {
	if strings.TrimSpace(name) == "" {
		return models.Strategy{}, errors.NewValidationError("name", name, "must not be empty")
	}
	s := models.Strategy{ID: uuid.NewString(), Name: name, Content: content}
	b.strategies = append(b.strategies, s)
	return s, b.saveStrategies(ctx)
}

// UpdateStrategy replaces the strategy with the same ID.
func (b *Book) UpdateStrategy(ctx context.Context, s models.Strategy) error {
	for i := range b.strategies {
		if b.strategies[i].ID == s.ID {
			b.strategies[i] = s
			return b.saveStrategies(ctx)
		}
	}
	b.logger.Warn().Str("id", s.ID).Msg("update for missing strategy ignored")
	return errors.ErrStrategyNotFound
}

// DeleteStrategy removes a strategy. If it was the active one the active
// reference is cleared rather than left dangling.
func (b *Book) DeleteStrategy(ctx context.Context, id string) error {
	for i := range b.strategies {
		if b.strategies[i].ID == id {
			b.strategies = append(b.strategies[:i], b.strategies[i+1:]...)
			if err := b.saveStrategies(ctx); err != nil {
				return err
			}
			if b.activeStrategy == id {
				b.activeStrategy = ""
				return b.saveActiveStrategy(ctx)
			}
			return nil
		}
	}
	b.logger.Warn().Str("id", id).Msg("delete for missing strategy ignored")
	return errors.ErrStrategyNotFound
}

// SetActiveStrategy marks one strategy as the active one. At most one
// strategy is active at a time.
func (b *Book) SetActiveStrategy(ctx context.Context, id string) error {
	if _, ok := b.strategyByID(id); !ok {
		return errors.ErrStrategyNotFound
	}
	b.activeStrategy = id
	return b.saveActiveStrategy(ctx)
}

// ClearActiveStrategy leaves no strategy active.
func (b *Book) ClearActiveStrategy(ctx context.Context) error {
	b.activeStrategy = ""
	return b.saveActiveStrategy(ctx)
}

// ActiveStrategy returns the currently active strategy, if any.
func (b *Book) ActiveStrategy() (models.Strategy, bool) {
	if b.activeStrategy == "" {
		return models.Strategy{}, false
	}
	return b.strategyByID(b.activeStrategy)
}

// Strategies returns a copy of all stored strategies.
func (b *Book) Strategies() []models.Strategy {
	return append([]models.Strategy{}, b.strategies...)
}

// FindStrategy resolves a user-supplied reference: exact ID first, then
// case-insensitive name, then unique ID prefix.
func (b *Book) FindStrategy(ref string) (models.Strategy, bool) {
	if s, ok := b.strategyByID(ref); ok {
		return s, true
	}
	for _, s := range b.strategies {
		if strings.EqualFold(s.Name, ref) {
			return s, true
		}
	}
	var match models.Strategy
	matches := 0
	for _, s := range b.strategies {
		if strings.HasPrefix(s.ID, ref) {
			match = s
			matches++
		}
	}
	if matches == 1 {
		return match, true
	}
	return models.Strategy{}, false
}

func (b *Book) strategyByID(id string) (models.Strategy, bool) {
	for _, s := range b.strategies {
		if s.ID == id {
			return s, true
		}
	}
	return models.Strategy{}, false
}

// AppendAudit records a finished audit. Audit history is append-only.
func (b *Book) AppendAudit(ctx context.Context, a models.Audit) error {
	b.audits = append(b.audits, a)
	return b.saveKey(ctx, store.KeyAudits, b.audits)
}

// Audits returns a copy of the audit history, oldest first.
func (b *Book) Audits() []models.Audit {
	return append([]models.Audit{}, b.audits...)
}

// AuditByID resolves an audit by full ID or unique prefix.
func (b *Book) AuditByID(ref string) (models.Audit, bool) {
	var match models.Audit
	matches := 0
	for _, a := range b.audits {
		if a.ID == ref {
			return a, true
		}
		if strings.HasPrefix(a.ID, ref) {
			match = a
			matches++
		}
	}
	if matches == 1 {
		return match, true
	}
	return models.Audit{}, false
}

// DismissStreakNudge remembers the losing-streak length the user dismissed,
// which silences the audit nudge until the streak length changes.
func (b *Book) DismissStreakNudge(ctx context.Context, length int) error {
	b.streakDismissed = length
	return b.saveKey(ctx, store.KeyStreakDismissed, b.streakDismissed)
}

// DismissedStreak returns the losing-streak length last dismissed, 0 if
// none was.
func (b *Book) DismissedStreak() int {
	return b.streakDismissed
}

func (b *Book) saveStrategies(ctx context.Context) error {
	if b.strategies == nil {
		b.strategies = []models.Strategy{}
	}
	return b.saveKey(ctx, store.KeyStrategies, b.strategies)
}

func (b *Book) saveActiveStrategy(ctx context.Context) error {
	var v interface{}
	if b.activeStrategy != "" {
		v = b.activeStrategy
	}
	return b.saveKey(ctx, store.KeyActiveStrategy, v)
}
