package conversion

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput reports a malformed or out-of-range conversion argument.
var ErrInvalidInput = errors.New("invalid input")

var two = int32(2)

// Sell computes how much stable asset a user receives for fiatAmount when
// the platform sells stable asset to the user. The margin is added to the
// world rate before dividing. The result is rounded to 2 decimals once.
func Sell(worldRate, margin, fiatAmount decimal.Decimal) (decimal.Decimal, error) {
	if err := validate(worldRate, margin, fiatAmount); err != nil {
		return decimal.Zero, err
	}
	quoted := worldRate.Add(margin)
	return fiatAmount.Div(quoted).Round(two), nil
}

// Buy computes how much fiat a user receives for stableAmount when the
// platform buys stable asset from the user. The margin is subtracted from
// the world rate before multiplying.
func Buy(worldRate, margin, stableAmount decimal.Decimal) (decimal.Decimal, error) {
	if err := validate(worldRate, margin, stableAmount); err != nil {
		return decimal.Zero, err
	}
	quoted := worldRate.Sub(margin)
	if !quoted.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: margin exceeds world rate", ErrInvalidInput)
	}
	return stableAmount.Mul(quoted).Round(two), nil
}

func validate(worldRate, margin, amount decimal.Decimal) error {
	if !worldRate.IsPositive() {
		return fmt.Errorf("%w: world rate must be positive", ErrInvalidInput)
	}
	if margin.IsNegative() {
		return fmt.Errorf("%w: margin cannot be negative", ErrInvalidInput)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	return nil
}
