package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"tradebook/internal/metrics"
	"tradebook/internal/models"
)

func TestProperty_MoneyAlwaysCarriesCentsAndEuro(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("FormatMoney ends in two decimals and the euro sign", prop.ForAll(
		func(amount float64) bool {
			formatted := FormatMoney(amount)
			if !strings.HasSuffix(formatted, " €") {
				t.Logf("FormatMoney(%v) = %q, missing euro suffix", amount, formatted)
				return false
			}
			numeral := strings.TrimSuffix(formatted, " €")
			if len(numeral) < 4 || numeral[len(numeral)-3] != ',' {
				t.Logf("FormatMoney(%v) = %q, want a two-digit decimal comma", amount, formatted)
				return false
			}
			return true
		},
		gen.Float64Range(-1e9, 1e9),
	))

	properties.Property("negative amounts keep their sign", prop.ForAll(
		func(amount float64) bool {
			formatted := FormatMoney(-amount)
			if !strings.HasPrefix(formatted, "-") {
				t.Logf("FormatMoney(%v) = %q, missing minus", -amount, formatted)
				return false
			}
			return true
		},
		gen.Float64Range(1, 1e9),
	))

	properties.TestingRun(t)
}

func TestProperty_PercentAndPnLSigns(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("positive percentages gain a plus sign", prop.ForAll(
		func(value float64) bool {
			formatted := FormatPercent(value)
			if !strings.HasSuffix(formatted, "%") {
				t.Logf("FormatPercent(%v) = %q, missing percent sign", value, formatted)
				return false
			}
			switch {
			case value > 0:
				return strings.HasPrefix(formatted, "+")
			case value < 0:
				return strings.HasPrefix(formatted, "-")
			default:
				return !strings.HasPrefix(formatted, "+") && !strings.HasPrefix(formatted, "-")
			}
		},
		gen.Float64Range(-500, 500),
	))

	properties.Property("winning PnL gains a plus sign", prop.ForAll(
		func(pnl float64) bool {
			formatted := FormatPnL(pnl)
			if pnl > 0 {
				return strings.HasPrefix(formatted, "+")
			}
			return !strings.HasPrefix(formatted, "+")
		},
		gen.Float64Range(-1e6, 1e6),
	))

	properties.TestingRun(t)
}

func TestProperty_TruncateNeverExceedsLimit(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("TruncateString never exceeds the limit", prop.ForAll(
		func(s string, maxLen int) bool {
			truncated := TruncateString(s, maxLen)
			if len(s) <= maxLen {
				return truncated == s
			}
			if len(truncated) != maxLen {
				t.Logf("TruncateString(%q, %d) = %q (len %d)", s, maxLen, truncated, len(truncated))
				return false
			}
			if maxLen > 3 && !strings.HasSuffix(truncated, "...") {
				t.Logf("TruncateString(%q, %d) = %q, missing ellipsis", s, maxLen, truncated)
				return false
			}
			return true
		},
		gen.AlphaString(),
		gen.IntRange(1, 40),
	))

	properties.TestingRun(t)
}

func TestProperty_PaddingReachesExactWidth(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("padded strings have exactly the requested width", prop.ForAll(
		func(s string, length int) bool {
			right := PadRight(s, length)
			left := PadLeft(s, length)
			if len(s) >= length {
				return right == s && left == s
			}
			if len(right) != length || len(left) != length {
				t.Logf("padding %q to %d gave %q / %q", s, length, right, left)
				return false
			}
			return strings.HasPrefix(right, s) && strings.HasSuffix(left, s)
		},
		gen.AlphaString(),
		gen.IntRange(0, 30),
	))

	properties.TestingRun(t)
}

func TestFormatMoneyExamples(t *testing.T) {
	testCases := []struct {
		amount   float64
		expected string
	}{
		{62500.5, "62.500,50 €"},
		{0, "0,00 €"},
		{-123.45, "-123,45 €"},
		{1000000, "1.000.000,00 €"},
		{0.5, "0,50 €"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			if got := FormatMoney(tc.amount); got != tc.expected {
				t.Errorf("FormatMoney(%v) = %q, want %q", tc.amount, got, tc.expected)
			}
		})
	}
}

func TestFormatPriceExamples(t *testing.T) {
	testCases := []struct {
		price    float64
		expected string
	}{
		{0, "-"},
		{62500.5, "62.500,5"},
		{100.567, "100,57"},
		{9.1234, "9,1234"},
		{0.5, "0,5"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			if got := FormatPrice(tc.price); got != tc.expected {
				t.Errorf("FormatPrice(%v) = %q, want %q", tc.price, got, tc.expected)
			}
		})
	}
}

func TestFormatStreak(t *testing.T) {
	testCases := []struct {
		streak   metrics.Streak
		expected string
	}{
		{metrics.Streak{Type: models.StreakWin, Length: 1}, "1 win"},
		{metrics.Streak{Type: models.StreakWin, Length: 4}, "4 wins"},
		{metrics.Streak{Type: models.StreakLoss, Length: 1}, "1 loss"},
		{metrics.Streak{Type: models.StreakLoss, Length: 3}, "3 losses"},
		{metrics.Streak{Type: models.StreakNone}, "none"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			if got := FormatStreak(tc.streak); got != tc.expected {
				t.Errorf("FormatStreak(%+v) = %q, want %q", tc.streak, got, tc.expected)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	if got := FormatDate(d); got != "05/03/2024" {
		t.Errorf("FormatDate = %q, want 05/03/2024", got)
	}
}
