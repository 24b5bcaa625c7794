// Package core holds the payoff planner domain: debt instruments, their cost
// ranking, the snowball timeline and the income/budget normalization.
//
// All amounts are integer cents. Simulations run on float64 copies of the
// balances so fractional interest accrues the same way month after month.
package core

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

type Money struct {
	Cents int64
}

// Validate rejects negative amounts. Zero is a valid balance or fee.
func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// String renders the amount as "<units>.<cents>", e.g. 1999 -> "19.99".
func (m Money) String() string {
	return FormatCents(m.Cents)
}

// Float returns the amount in cents as a float64 for simulation.
func (m Money) Float() float64 {
	return float64(m.Cents)
}

// FormatCents formats cents with exactly two decimal places.
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// ParseMoney converts a decimal string to cents.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and rounds
// half-up on the third decimal place. Negative values are rejected; zero is
// accepted since balances and fees may legitimately be zero.
//
// Examples:
//
//	ParseMoney("12.34")  -> 1234
//	ParseMoney("12,345") -> 1235
//	ParseMoney("50.0")   -> 5000
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Shift(2).Round(0)
	if !cents.IsInteger() || cents.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}

// RoundCents rounds a simulated float balance to whole cents.
func RoundCents(v float64) int64 {
	return int64(math.Round(v))
}
