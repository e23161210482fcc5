package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents converts a currency amount into integer minor units.
// It fails if the amount carries sub-cent precision, so callers can reject
// amounts the ledger cannot split exactly.
func Cents(amount decimal.Decimal) (int64, error) {
	shifted := amount.Shift(2)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("amount %s is not a whole number of cents", amount)
	}
	return shifted.IntPart(), nil
}

// FromCents converts integer minor units back into a currency amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
