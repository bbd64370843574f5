package domain

import (
	"github.com/shopspring/decimal"

	dErrors "tokenguard/pkg/domain-errors"
)

// ValidateAmount rejects negative and fractional amounts. Amounts are
// integer base units.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return dErrors.Newf(dErrors.CodeInvalidInput, "amount %s is negative", amount)
	}
	if !amount.IsInteger() {
		return dErrors.Newf(dErrors.CodeInvalidInput, "amount %s is not a whole number of base units", amount)
	}
	return nil
}

// ParseAmount parses a base-10 integer amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, dErrors.Wrap(err, dErrors.CodeInvalidInput, "amount must be a decimal integer")
	}
	if err := ValidateAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}
