// Package money holds the fixed two-decimal arithmetic used for prices and
// order totals.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits stored for every amount.
const Scale int32 = 2

// MaxAmount is the largest magnitude a numeric(12,2) column holds.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// Round rounds half away from zero to Scale places, matching how a
// numeric(12,2) column coerces a wider value.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// Parse reads a decimal literal and rounds it to Scale places.
func Parse(value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", value, err)
	}
	return Round(d), nil
}

// LineAmount returns quantity * unit rounded to Scale places.
func LineAmount(quantity int, unit decimal.Decimal) decimal.Decimal {
	return Round(unit.Mul(decimal.NewFromInt(int64(quantity))))
}

// Fits reports whether d, once rounded, can be stored without overflow.
func Fits(d decimal.Decimal) bool {
	return Round(d).Abs().LessThanOrEqual(MaxAmount)
}

// Sum adds the amounts exactly.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(amount)
	}
	return total
}

// Amount renders a decimal as a JSON number with exactly Scale fractional
// digits, e.g. 99.90.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.StringFixed(Scale)), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.Decimal.UnmarshalJSON(data)
}

func (a Amount) String() string {
	return a.StringFixed(Scale)
}
