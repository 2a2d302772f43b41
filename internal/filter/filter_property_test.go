package filter

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"tradebook/internal/models"
)

var propAssets = []string{"BTC", "ETH", "SOL"}

// bookFromSeeds derives a deterministic book from small ints: 0 leaves the
// trade open, odd values win, even values lose.
func bookFromSeeds(seeds []int) []models.Trade {
	trades := make([]models.Trade, len(seeds))
	for i, seed := range seeds {
		t := models.Trade{
			ID:         i + 1,
			Date:       time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Asset:      propAssets[seed%len(propAssets)],
			Direction:  models.DirectionLong,
			EntryPrice: 100,
			Size:       1,
		}
		switch {
		case seed == 0:
			// open
		case seed%2 == 1:
			t.ExitPrice = 100 + float64(seed)
		default:
			t.ExitPrice = 100 - float64(seed)
		}
		t.Recalculate()
		trades[i] = t
	}
	return trades
}

func genFilter() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, 40),
		gen.IntRange(0, 40),
		gen.OneConstOf("", "btc", "ETH", "XRP"),
		gen.OneConstOf(OutcomeAny, OutcomeWin, OutcomeLoss),
		gen.OneConstOf("", "3", "1-5", "2-100", "abc", "0-3", "5-2"),
	).Map(func(vals []interface{}) Filter {
		f := Filter{
			Asset:   vals[2].(string),
			Outcome: vals[3].(Outcome),
			TradeID: vals[4].(string),
		}
		base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
		if d := vals[0].(int); d > 0 {
			f.Start = base.AddDate(0, 0, d-1)
		}
		if d := vals[1].(int); d > 0 {
			f.End = base.AddDate(0, 0, d-1)
		}
		return f
	})
}

func TestProperty_ApplyIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("filtering a filtered view changes nothing", prop.ForAll(
		func(seeds []int, f Filter) bool {
			trades := bookFromSeeds(seeds)
			once := Apply(trades, f)
			twice := Apply(once, f)
			if !sameIDs(twice, ids(once)...) {
				t.Logf("filter %+v: once %v, twice %v", f, ids(once), ids(twice))
				return false
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 20)),
		genFilter(),
	))

	properties.TestingRun(t)
}

func TestProperty_ApplySelectsSubset(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("every selected trade comes from the book, in order", prop.ForAll(
		func(seeds []int, f Filter) bool {
			trades := bookFromSeeds(seeds)
			got := Apply(trades, f)
			if len(got) > len(trades) {
				t.Logf("filter %+v selected %d of %d trades", f, len(got), len(trades))
				return false
			}
			lastID := 0
			for _, sel := range got {
				if sel.ID <= lastID {
					t.Logf("selection out of order: %v", ids(got))
					return false
				}
				lastID = sel.ID
				if sel.ID < 1 || sel.ID > len(trades) {
					t.Logf("selected unknown ID %d", sel.ID)
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 20)),
		genFilter(),
	))

	properties.Property("clearing the filter always restores the whole book", prop.ForAll(
		func(seeds []int, f Filter) bool {
			trades := bookFromSeeds(seeds)
			Apply(trades, f)
			all := Apply(trades, Filter{})
			if !sameIDs(all, ids(trades)...) {
				t.Logf("zero filter returned %v of %d trades", ids(all), len(trades))
				return false
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 20)),
		genFilter(),
	))

	properties.TestingRun(t)
}
