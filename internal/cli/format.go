// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"tradebook/internal/metrics"
	"tradebook/internal/models"
)

// moneyPrinter renders numbers with es-ES grouping, matching the
// spreadsheet the journal exports to.
var moneyPrinter = message.NewPrinter(language.Spanish)

// FormatMoney formats an amount in euros with Spanish digit grouping.
func FormatMoney(amount float64) string {
	return moneyPrinter.Sprintf("%v €", number.Decimal(amount,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// FormatPrice formats a price, or "-" when the price is absent.
func FormatPrice(price float64) string {
	if price == 0 {
		return "-"
	}
	if price >= 10 {
		return moneyPrinter.Sprintf("%v", number.Decimal(price, number.MaxFractionDigits(2)))
	}
	return moneyPrinter.Sprintf("%v", number.Decimal(price, number.MaxFractionDigits(4)))
}

// FormatSize formats a position size. Sizes may be fractional.
func FormatSize(size float64) string {
	return moneyPrinter.Sprintf("%v", number.Decimal(size, number.MaxFractionDigits(8)))
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatPnL formats P&L with sign.
func FormatPnL(pnl float64) string {
	formatted := FormatMoney(pnl)
	if pnl > 0 {
		return "+" + formatted
	}
	return formatted
}

// FormatDate formats a trade date.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// FormatStreak renders a streak for display.
func FormatStreak(s metrics.Streak) string {
	switch s.Type {
	case models.StreakWin:
		if s.Length == 1 {
			return "1 win"
		}
		return fmt.Sprintf("%d wins", s.Length)
	case models.StreakLoss:
		if s.Length == 1 {
			return "1 loss"
		}
		return fmt.Sprintf("%d losses", s.Length)
	default:
		return "none"
	}
}

// TruncateString truncates a string to max length with ellipsis.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// PadRight pads a string to the right.
func PadRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// PadLeft pads a string to the left.
func PadLeft(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return strings.Repeat(" ", length-len(s)) + s
}
