package parse

import (
	"strings"

	"tradebook/internal/errors"
	"tradebook/internal/models"
)

// quickAddMinParts gates how short a quick-add line may be. The fixed field
// order is date, asset, direction, leverage, entry, exit, stop, target,
// size, journal.
const quickAddMinParts = 8

// ParseDirection folds a free-form side token. Anything containing "long"
// or the Spanish "compra" is LONG; any other non-empty token is SHORT, so
// "short", "venta" and abbreviations all resolve.
func ParseDirection(token string) (models.Direction, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	if t == "" {
		return "", errors.Wrap(errors.ErrInvalidDirection, "empty direction")
	}
	if strings.Contains(t, "long") || strings.Contains(t, "compra") {
		return models.DirectionLong, nil
	}
	return models.DirectionShort, nil
}

// stripGroupingCommas removes digit-grouping commas so "62,500.5" survives
// the comma split as one field. A comma counts as grouping when a digit
// precedes it and exactly three digits follow.
func stripGroupingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == ',' && i > 0 && isDigit(s[i-1]) && exactlyThreeDigitsAt(s, i+1) {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func exactlyThreeDigitsAt(s string, i int) bool {
	n := 0
	for ; i+n < len(s) && n < 4 && isDigit(s[i+n]); n++ {
	}
	return n == 3
}

// ParseQuickAdd reads one pasted quick-add line in the fixed order
//
//	date, asset, direction, leverage, entry, exit, stop, target, size[, journal...]
//
// Parsing is all-or-nothing: a line with fewer than eight comma-separated
// parts, or with a bad required value, produces no trade at all. Optional
// prices (exit, stop, target) fall back to "not set" instead of failing.
// Everything past the size field is re-joined into the journal text.
func ParseQuickAdd(line string) (models.Trade, error) {
	parts := strings.Split(stripGroupingCommas(line), ",")
	if len(parts) < quickAddMinParts {
		return models.Trade{}, errors.Wrapf(errors.ErrRecordTooShort,
			"quick add needs at least %d comma-separated parts, got %d", quickAddMinParts, len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	part := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}

	var t models.Trade
	var err error
	if t.Date, err = ParseDate(part(0)); err != nil {
		return models.Trade{}, err
	}
	if t.Asset = part(1); t.Asset == "" {
		return models.Trade{}, errors.Wrap(errors.ErrMissingField, "asset")
	}
	if t.Direction, err = ParseDirection(part(2)); err != nil {
		return models.Trade{}, err
	}
	t.Leverage = part(3)
	if t.EntryPrice, err = requiredPrice("entryPrice", part(4)); err != nil {
		return models.Trade{}, err
	}
	t.ExitPrice = optionalPrice(part(5))
	t.StopLoss = optionalPrice(part(6))
	t.TakeProfit = optionalPrice(part(7))
	if t.Size, err = requiredPrice("size", part(8)); err != nil {
		return models.Trade{}, err
	}
	if len(parts) > 9 {
		t.Journal = strings.TrimSpace(strings.Join(parts[9:], ", "))
	}

	t.Recalculate()
	return t, nil
}
