package store

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestProperty_StateRoundTripConsistency(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	keys := []string{
		KeyTrades, KeyInitialCapital, KeyStrategies,
		KeyActiveStrategy, KeyAudits, KeyStreakDismissed,
	}

	counter := 0

	properties.Property("save then load produces the same document", prop.ForAll(
		func(keyIdx int, doc string) bool {
			ctx := context.Background()
			// A fresh key per run keeps runs independent.
			counter++
			key := fmt.Sprintf("%s_%d", keys[keyIdx%len(keys)], counter)

			value := []byte(fmt.Sprintf(`{"doc": %q}`, doc))
			if err := store.Save(ctx, key, value); err != nil {
				t.Logf("Save failed: %v", err)
				return false
			}

			got, ok, err := store.Load(ctx, key)
			if err != nil {
				t.Logf("Load failed: %v", err)
				return false
			}
			if !ok {
				t.Logf("Load missed key %q right after Save", key)
				return false
			}
			if !bytes.Equal(got, value) {
				t.Logf("Load returned %q, want %q", got, value)
				return false
			}
			return true
		},
		gen.IntRange(0, len(keys)-1),
		gen.AnyString(),
	))

	properties.Property("the last save wins", prop.ForAll(
		func(keyIdx int, first string, second string) bool {
			ctx := context.Background()
			counter++
			key := fmt.Sprintf("%s_over_%d", keys[keyIdx%len(keys)], counter)

			if err := store.Save(ctx, key, []byte(first)); err != nil {
				t.Logf("first Save failed: %v", err)
				return false
			}
			if err := store.Save(ctx, key, []byte(second)); err != nil {
				t.Logf("second Save failed: %v", err)
				return false
			}
			got, ok, err := store.Load(ctx, key)
			if err != nil || !ok {
				t.Logf("Load after overwrite: ok=%v err=%v", ok, err)
				return false
			}
			if string(got) != second {
				t.Logf("Load returned %q, want %q", got, second)
				return false
			}
			return true
		},
		gen.IntRange(0, len(keys)-1),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
