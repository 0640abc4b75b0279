// Package domain holds the value types of the checkout engine: Money,
// Discount, Payment and SaleNumber. Everything here is immutable and free of
// persistence concerns; services compose these values and repositories store
// their decimal representations.
package domain

import (
	"github.com/shopspring/decimal"

	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/apierror"
)

// Money is an immutable decimal amount. All monetary arithmetic in the engine
// flows through this type — never through float64 — so 0.10 + 0.20 is exactly
// 0.30. Operations return new values and never round silently.
type Money struct {
	amount decimal.Decimal
}

var oneHundred = decimal.NewFromInt(100)

// NewMoney wraps an existing decimal.
func NewMoney(d decimal.Decimal) Money { return Money{amount: d} }

// NewMoneyFromString parses a decimal string ("87.65"). Malformed input is a
// validation error.
func NewMoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, apierror.Validation("invalid money amount: " + s)
	}
	return Money{amount: d}, nil
}

// Zero returns the zero amount.
func Zero() Money { return Money{amount: decimal.Zero} }

// Decimal exposes the underlying decimal for persistence and JSON encoding.
func (m Money) Decimal() decimal.Decimal { return m.amount }

func (m Money) Add(o Money) Money { return Money{amount: m.amount.Add(o.amount)} }
func (m Money) Sub(o Money) Money { return Money{amount: m.amount.Sub(o.amount)} }

// MulInt multiplies by an integer quantity (line total = unit price × qty).
func (m Money) MulInt(n int64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(n))}
}

// Div divides by an integer scalar using decimal division. n must be
// non-zero; decimal division by zero panics.
func (m Money) Div(n int64) Money {
	return Money{amount: m.amount.Div(decimal.NewFromInt(n))}
}

// ApplyPercentage computes amount × p / 100 with decimal division. This is the
// basis for all discount math.
func (m Money) ApplyPercentage(p decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(p).Div(oneHundred)}
}

func (m Money) Equal(o Money) bool       { return m.amount.Equal(o.amount) }
func (m Money) GreaterThan(o Money) bool { return m.amount.GreaterThan(o.amount) }
func (m Money) LessThan(o Money) bool    { return m.amount.LessThan(o.amount) }
func (m Money) GTE(o Money) bool         { return m.amount.GreaterThanOrEqual(o.amount) }
func (m Money) LTE(o Money) bool         { return m.amount.LessThanOrEqual(o.amount) }

func (m Money) IsZero() bool     { return m.amount.IsZero() }
func (m Money) IsPositive() bool { return m.amount.IsPositive() }
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// String renders the amount with exactly two decimal places.
func (m Money) String() string { return m.amount.StringFixed(2) }
