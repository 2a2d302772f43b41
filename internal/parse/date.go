package parse

import (
	"strconv"
	"strings"
	"time"

	"tradebook/internal/errors"
)

var dateSeparators = strings.NewReplacer("-", "/", ".", "/")

// ParseDate reads a calendar date written day-first ("31/01/2024") or
// year-first ("2024-01-31") with "/", "-" or "." separators. A 4-digit
// first component selects year-first order. Two-digit years pivot at 50:
// 24 is 2024, 87 is 1987. The result is midnight UTC; trades carry day
// granularity only.
func ParseDate(raw string) (time.Time, error) {
	parts := strings.Split(dateSeparators.Replace(strings.TrimSpace(raw)), "/")
	if len(parts) != 3 {
		return time.Time{}, errors.Wrapf(errors.ErrInvalidDate, "parse %q", raw)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return time.Time{}, errors.Wrapf(errors.ErrInvalidDate, "parse %q", raw)
		}
		nums[i] = n
	}

	var year, month, day int
	if len(parts[0]) == 4 {
		year, month, day = nums[0], nums[1], nums[2]
	} else {
		day, month, year = nums[0], nums[1], nums[2]
	}
	if year < 50 {
		year += 2000
	} else if year < 100 {
		year += 1900
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, errors.Wrapf(errors.ErrInvalidDate, "parse %q", raw)
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, errors.Wrapf(errors.ErrInvalidDate, "%q is not a calendar date", raw)
	}
	return d, nil
}
