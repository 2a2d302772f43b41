// Package store provides the persistence port for journal state.
package store

import "context"

// Keys name the independently persisted slices of journal state. Each is
// loaded on its own at startup and saved whenever its owning state changes,
// so a corrupt value can only take down its own slice.
const (
	KeyTrades          = "trades"
	KeyInitialCapital  = "initial_capital"
	KeyStrategies      = "strategies"
	KeyActiveStrategy  = "active_strategy_id"
	KeyAudits          = "audits"
	KeyStreakDismissed = "dismissed_streak_audit"
)

// Store is the key/value persistence port the ledger talks to. Values are
// opaque JSON documents; a missing key is (nil, false, nil), never an error.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
	Close() error
}
