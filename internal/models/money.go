package models

import "github.com/shopspring/decimal"

// MonetaryPrecision is the number of fraction digits kept for every amount.
const MonetaryPrecision = 2

// MaxAmount is the largest value a numeric(9,2) money column accepts here;
// amounts are limited to seven significant digits.
var MaxAmount = decimal.RequireFromString("99999.99")

// ValidAmount reports whether d is a positive amount with at most two
// fraction digits that fits in MaxAmount.
func ValidAmount(d decimal.Decimal) bool {
	if !d.IsPositive() {
		return false
	}
	if !d.Equal(d.Truncate(MonetaryPrecision)) {
		return false
	}
	return d.LessThanOrEqual(MaxAmount)
}

// FormatAmount renders d with exactly two fraction digits.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(MonetaryPrecision)
}
