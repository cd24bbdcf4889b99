// Package money converts between decimal currency amounts and the int64
// cents stored in the database.
package money

import (
	"github.com/shopspring/decimal"
)

const DefaultSymbol = "₱"

var hundred = decimal.NewFromInt(100)

// FromFloat converts a currency amount (e.g. 189.99) to cents, rounding half away from zero.
func FromFloat(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(hundred).Round(0).IntPart()
}

// FromDecimal converts a decimal currency amount to cents.
func FromDecimal(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// Parse converts a textual amount ("250", "59.75") to cents.
func Parse(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return FromDecimal(d), nil
}

// ToDecimal converts cents to a decimal with two places.
func ToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// ToFloat converts cents to a float for JSON responses.
func ToFloat(cents int64) float64 {
	f, _ := ToDecimal(cents).Float64()
	return f
}

// Fixed renders cents with exactly two decimals ("200.00").
func Fixed(cents int64) string {
	return ToDecimal(cents).StringFixed(2)
}

// Format renders cents with a currency symbol ("₱200.00").
func Format(symbol string, cents int64) string {
	return symbol + Fixed(cents)
}
