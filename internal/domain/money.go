package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// MaxAmount caps any single amount and any donor's running total, in major
// units. 1e15 cents stays inside the range where float64 holds whole cents exactly.
const MaxAmount = 1e13

const maxCents int64 = MaxAmount * 100

// ToCents rounds a major-unit amount half away from zero to whole cents.
func ToCents(amount float64) int64 {
	return decimal.NewFromFloat(amount).Round(2).Shift(2).IntPart()
}

// ValidateAmount checks that amount is finite, rounds to at least one cent
// and does not exceed MaxAmount. Failures wrap ErrInvalidArgument.
func ValidateAmount(name string, amount float64) error {
	switch {
	case math.IsNaN(amount) || math.IsInf(amount, 0):
		return fmt.Errorf("%s %v is not a finite number: %w", name, amount, ErrInvalidArgument)
	case amount <= 0:
		return fmt.Errorf("%s %v must be positive: %w", name, amount, ErrInvalidArgument)
	case amount > MaxAmount:
		return fmt.Errorf("%s %v exceeds the maximum of %.0f: %w", name, amount, MaxAmount, ErrInvalidArgument)
	case ToCents(amount) <= 0:
		return fmt.Errorf("%s %v rounds to zero cents: %w", name, amount, ErrInvalidArgument)
	}
	return nil
}

// ThresholdCents converts a comparison threshold to cents, rounding down so
// that "total > threshold" keeps its meaning for fractional cents. Values
// beyond ±MaxAmount are clamped.
func ThresholdCents(threshold float64) int64 {
	switch {
	case threshold > MaxAmount:
		return maxCents
	case threshold < -MaxAmount:
		return -maxCents
	}
	return decimal.NewFromFloat(threshold).Shift(2).Floor().IntPart()
}

// FromCents converts stored cents back to major units.
func FromCents(cents int64) float64 {
	return decimal.New(cents, -2).InexactFloat64()
}

// FromMinorUnits converts an amount expressed in a currency's minor unit
// (exponent digits after the decimal point) into major units.
func FromMinorUnits(amount int64, exponent int) float64 {
	return decimal.New(amount, -int32(exponent)).InexactFloat64()
}

// Percent returns part/whole*100 rounded to two places, 0 when whole is 0.
func Percent(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return decimal.NewFromInt(part).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(whole), 2).
		InexactFloat64()
}

// Ratio returns part/whole rounded to four places, 0 when whole is 0.
func Ratio(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return decimal.NewFromInt(part).
		DivRound(decimal.NewFromInt(whole), 4).
		InexactFloat64()
}

// AverageCents returns total/count in major units rounded to cents.
func AverageCents(totalCents, count int64) float64 {
	if count == 0 {
		return 0
	}
	return decimal.New(totalCents, -2).
		DivRound(decimal.NewFromInt(count), 2).
		InexactFloat64()
}
