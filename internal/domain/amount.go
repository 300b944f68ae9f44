package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// ParseAmount converts a caller-supplied amount into smallest currency units.
// Amounts must be positive whole numbers that fit in an int64.
func ParseAmount(d decimal.Decimal) (int64, error) {
	if !d.IsPositive() {
		return 0, NewValidationError("amount must be greater than 0")
	}
	if !d.IsInteger() {
		return 0, NewValidationError("amount must be a whole number, got %s", d.String())
	}
	if d.GreaterThan(maxAmount) {
		return 0, NewValidationError("amount %s is out of range", d.String())
	}
	return d.IntPart(), nil
}

// ParseAmountString is ParseAmount for textual input
func ParseAmountString(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, NewValidationError("invalid amount format: %q", s)
	}
	return ParseAmount(d)
}
