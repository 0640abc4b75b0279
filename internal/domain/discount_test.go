package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/apierror"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/domain"
)

func TestNewDiscount_Range(t *testing.T) {
	_, err := domain.NewDiscount(decimal.NewFromInt(-1))
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	_, err = domain.NewDiscount(decimal.NewFromInt(101))
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	for _, pct := range []int64{0, 10, 100} {
		_, err := domain.NewDiscount(decimal.NewFromInt(pct))
		assert.NoError(t, err, "pct=%d", pct)
	}
}

func TestDiscount_RoleCeilings(t *testing.T) {
	at10, err := domain.NewDiscount(decimal.NewFromInt(10))
	require.NoError(t, err)
	at11, err := domain.NewDiscount(decimal.NewFromInt(11))
	require.NoError(t, err)
	at100, err := domain.NewDiscount(decimal.NewFromInt(100))
	require.NoError(t, err)

	// Cashiers are capped at 10%.
	assert.True(t, at10.AllowedForRole(domain.RoleCashier))
	assert.False(t, at11.AllowedForRole(domain.RoleCashier))

	// Managers and admins can go up to 100%.
	assert.True(t, at100.AllowedForRole(domain.RoleManager))
	assert.True(t, at100.AllowedForRole(domain.RoleAdmin))
}

func TestDiscount_Apply(t *testing.T) {
	d, err := domain.NewDiscount(decimal.NewFromInt(15))
	require.NoError(t, err)

	amount := d.Apply(money(t, "80.00"))
	assert.Equal(t, "12.00", amount.String())
}
