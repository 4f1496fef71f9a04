// Package numtext provides low-level helpers for turning user-typed text
// into decimal values and back into grouped display strings.
package numtext

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// nonNumeric matches every rune that cannot appear in a plain number.
// User input arrives with currency symbols, percent signs, thousands
// separators and stray whitespace; all of it is discarded before parsing.
var nonNumeric = regexp.MustCompile(`[^0-9.\-]+`)

// Sanitize strips every character except digits, '.' and '-'.
func Sanitize(raw string) string {
	return nonNumeric.ReplaceAllString(raw, "")
}

// ParseNumber sanitizes raw and parses the residue as a decimal.
// The second return is false when nothing parseable remains, e.g. for
// empty input, bare punctuation, or malformed numbers like "1.2.3".
func ParseNumber(raw string) (decimal.Decimal, bool) {
	cleaned := Sanitize(raw)
	if cleaned == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// GroupThousands inserts comma separators into an unsigned integer digit
// string, three digits per group from the right.
func GroupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var groups []string
	for i := len(digits); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{digits[start:i]}, groups...)
	}
	return strings.Join(groups, ",")
}

// FixedFraction renders d with at most max fraction digits (rounded half
// away from zero) and at least min, trimming trailing zeros in between.
func FixedFraction(d decimal.Decimal, min, max int32) string {
	if min < 0 {
		min = 0
	}
	if max < min {
		max = min
	}
	s := d.Round(max).StringFixed(max)
	if max == min {
		return s
	}
	intPart, frac, ok := strings.Cut(s, ".")
	if !ok {
		return s
	}
	frac = strings.TrimRight(frac, "0")
	for int32(len(frac)) < min {
		frac += "0"
	}
	if frac == "" {
		return intPart
	}
	return intPart + "." + frac
}
