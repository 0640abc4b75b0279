package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/domain"
)

func money(t *testing.T, s string) domain.Money {
	t.Helper()
	m, err := domain.NewMoneyFromString(s)
	require.NoError(t, err)
	return m
}

func TestMoney_AddExactDecimals(t *testing.T) {
	// The classic float trap: 0.10 + 0.20 must be exactly 0.30.
	sum := money(t, "0.10").Add(money(t, "0.20"))
	assert.Equal(t, "0.30", sum.String())
	assert.True(t, sum.Equal(money(t, "0.30")))
}

func TestMoney_SubAndChange(t *testing.T) {
	change := money(t, "100.00").Sub(money(t, "87.65"))
	assert.Equal(t, "12.35", change.String())
}

func TestMoney_MulInt(t *testing.T) {
	line := money(t, "19.99").MulInt(3)
	assert.Equal(t, "59.97", line.String())
}

func TestMoney_ApplyPercentage(t *testing.T) {
	base := money(t, "200.00")

	assert.Equal(t, "20.00", base.ApplyPercentage(decimal.NewFromInt(10)).String())
	assert.Equal(t, "0.00", base.ApplyPercentage(decimal.Zero).String())
	assert.Equal(t, "200.00", base.ApplyPercentage(decimal.NewFromInt(100)).String())

	// 12.5% of 79.99 — decimal division, no float drift
	assert.Equal(t, "10.00", money(t, "79.99").ApplyPercentage(decimal.RequireFromString("12.5")).String())
}

func TestMoney_Div(t *testing.T) {
	assert.Equal(t, "2.50", money(t, "10.00").Div(4).String())

	// Zero divisor panics, per the documented precondition.
	assert.Panics(t, func() { money(t, "10.00").Div(0) })
}

func TestMoney_Comparisons(t *testing.T) {
	a := money(t, "50.00")
	b := money(t, "100.00")

	assert.True(t, a.LessThan(b))
	assert.True(t, b.GreaterThan(a))
	assert.True(t, a.LTE(a))
	assert.True(t, a.GTE(a))
	assert.False(t, a.Equal(b))
}

func TestMoney_SignPredicates(t *testing.T) {
	assert.True(t, domain.Zero().IsZero())
	assert.True(t, money(t, "0.01").IsPositive())
	assert.True(t, money(t, "5.00").Sub(money(t, "7.00")).IsNegative())
}

func TestNewMoneyFromString_Malformed(t *testing.T) {
	_, err := domain.NewMoneyFromString("abc")
	assert.Error(t, err)
}
