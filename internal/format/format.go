// Package format renders stored numeric field values for display in
// text inputs and parses edited input text back into stored values.
package format

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/formbind/formbind/pkg/numtext"
)

// Kind selects the display treatment applied to a field's value.
type Kind string

const (
	KindCurrency Kind = "currency"
	KindPercent  Kind = "percent"
)

// ParseKind validates a kind tag from configuration.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindCurrency, KindPercent:
		return k, nil
	}
	return "", fmt.Errorf("unknown formatting kind %q", s)
}

// Spec describes how a single field is formatted. Immutable once built.
type Spec struct {
	Kind              Kind
	MinFractionDigits int32
	MaxFractionDigits int32
}

// Currency returns a currency Spec with the given fraction-digit bounds.
func Currency(min, max int32) Spec {
	return Spec{Kind: KindCurrency, MinFractionDigits: min, MaxFractionDigits: max}
}

// Percent returns a percent Spec with the given fraction-digit bounds.
func Percent(min, max int32) Spec {
	return Spec{Kind: KindPercent, MinFractionDigits: min, MaxFractionDigits: max}
}

// Default returns the stock Spec for a kind: currency renders with exactly
// two fraction digits, percent with up to two.
func Default(k Kind) Spec {
	if k == KindPercent {
		return Percent(0, 2)
	}
	return Currency(2, 2)
}

// Read parses user-typed input into a stored value. Everything except
// digits, '.' and '-' is stripped first, so "$1,300" reads as 1300.
// Input with no parseable number left reads as null. The stored percent
// value is the plain number the user typed: "50" stores 50, not 0.5.
func (s Spec) Read(raw string) decimal.NullDecimal {
	d, ok := numtext.ParseNumber(raw)
	return decimal.NullDecimal{Decimal: d, Valid: ok}
}

// Format renders a stored value for display. Null formats to ("", false).
// Currency: "$1,234.50" with the sign ahead of the symbol ("-$12.00").
// Percent: "12.3%"; the stored value already is the displayed percentage.
func (s Spec) Format(v decimal.NullDecimal) (string, bool) {
	if !v.Valid {
		return "", false
	}
	text := numtext.FixedFraction(v.Decimal, s.MinFractionDigits, s.MaxFractionDigits)
	neg := strings.HasPrefix(text, "-")
	text = strings.TrimPrefix(text, "-")
	intPart, frac, hasFrac := strings.Cut(text, ".")
	grouped := numtext.GroupThousands(intPart)
	if hasFrac {
		grouped += "." + frac
	}
	switch s.Kind {
	case KindCurrency:
		if neg {
			return "-$" + grouped, true
		}
		return "$" + grouped, true
	case KindPercent:
		if neg {
			grouped = "-" + grouped
		}
		return grouped + "%", true
	}
	return "", false
}

// FormatValue renders a raw record value, coercing the loosely typed
// representations a host record source hands back. Absent or
// non-numeric values format to ("", false).
func (s Spec) FormatValue(v any) (string, bool) {
	return s.Format(coerce(v))
}

func coerce(v any) decimal.NullDecimal {
	switch x := v.(type) {
	case nil:
		return decimal.NullDecimal{}
	case decimal.NullDecimal:
		return x
	case decimal.Decimal:
		return decimal.NullDecimal{Decimal: x, Valid: true}
	case *decimal.Decimal:
		if x == nil {
			return decimal.NullDecimal{}
		}
		return decimal.NullDecimal{Decimal: *x, Valid: true}
	case float64:
		return decimal.NullDecimal{Decimal: decimal.NewFromFloat(x), Valid: true}
	case float32:
		return decimal.NullDecimal{Decimal: decimal.NewFromFloat32(x), Valid: true}
	case int:
		return decimal.NullDecimal{Decimal: decimal.NewFromInt(int64(x)), Valid: true}
	case int32:
		return decimal.NullDecimal{Decimal: decimal.NewFromInt32(x), Valid: true}
	case int64:
		return decimal.NullDecimal{Decimal: decimal.NewFromInt(x), Valid: true}
	case string:
		d, ok := numtext.ParseNumber(x)
		return decimal.NullDecimal{Decimal: d, Valid: ok}
	default:
		d, ok := numtext.ParseNumber(fmt.Sprint(v))
		return decimal.NullDecimal{Decimal: d, Valid: ok}
	}
}
