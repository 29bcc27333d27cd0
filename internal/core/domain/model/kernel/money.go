package kernel

import (
	"fmt"
	"math"

	"partnerdelivery/internal/pkg/errs"
)

// minorUnitsPerMajor is the number of minor units (paise, cents) in one currency unit.
const minorUnitsPerMajor = 100

// Money is a non-negative monetary amount stored in minor units.
// Wallet balances, order prices and commissions are all Money.
type Money struct {
	minor int64
}

// NewMoney converts an amount in major units, rounding to the nearest minor unit.
func NewMoney(amount float64) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", amount, 0, math.MaxFloat64)
	}
	return Money{minor: int64(math.Round(amount * minorUnitsPerMajor))}, nil
}

// MoneyFromMinor restores an amount persisted in minor units.
func MoneyFromMinor(minor int64) (Money, error) {
	if minor < 0 {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", minor, 0, math.MaxInt64)
	}
	return Money{minor: minor}, nil
}

func (m Money) Minor() int64 {
	return m.minor
}

func (m Money) Float64() float64 {
	return float64(m.minor) / minorUnitsPerMajor
}

func (m Money) IsZero() bool {
	return m.minor == 0
}

func (m Money) Add(other Money) Money {
	return Money{minor: m.minor + other.minor}
}

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.minor/minorUnitsPerMajor, m.minor%minorUnitsPerMajor)
}
