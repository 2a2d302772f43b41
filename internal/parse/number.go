// Package parse converts pasted text, CSV rows and loose numeric or date
// strings into canonical trades. Input is whatever a trader copies out of a
// spreadsheet or an exchange UI, so every parser here is locale-tolerant.
package parse

import (
	"strconv"
	"strings"
	"unicode"

	"tradebook/internal/errors"
)

// ParseNumber reads a price or size the way traders paste them: currency
// symbols and whitespace are ignored and both separator conventions are
// accepted. With "1.234,56" and "1,234.56" the rightmost of the two symbols
// is the decimal point and the other is grouping. A string with only commas
// treats the comma as a decimal point.
func ParseNumber(raw string) (float64, error) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.Is(unicode.Sc, r) {
			return -1
		}
		return r
	}, raw)
	if s == "" {
		return 0, errors.Wrapf(errors.ErrInvalidNumber, "parse %q", raw)
	}

	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case comma >= 0 && dot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		s = strings.ReplaceAll(s, ",", ".")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInvalidNumber, "parse %q", raw)
	}
	return v, nil
}

// optionalPrice reads an optional positive price field. Blank, unparseable
// and non-positive values all mean "not set".
func optionalPrice(s string) float64 {
	if strings.TrimSpace(s) == "" {
		return 0
	}
	v, err := ParseNumber(s)
	if err != nil || v <= 0 {
		return 0
	}
	return v
}

// requiredPrice reads a mandatory strictly positive number.
func requiredPrice(field, s string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, errors.Wrap(errors.ErrMissingField, field)
	}
	v, err := ParseNumber(s)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, errors.Wrapf(errors.ErrInvalidNumber, "field %s must be positive, got %v", field, v)
	}
	return v, nil
}
