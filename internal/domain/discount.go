package domain

import (
	"github.com/shopspring/decimal"

	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/apierror"
)

// Roles recognized by the discount policy. They mirror the JWT role claim.
const (
	RoleCashier = "cashier"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// roleDiscountCeiling is the maximum percentage each role may apply. The low
// ceiling for cashiers is a fraud control and must hold at the point of
// application, not only in the UI. Roles absent from the map get the default
// ceiling.
var roleDiscountCeiling = map[string]decimal.Decimal{
	RoleCashier: decimal.NewFromInt(10),
}

var defaultDiscountCeiling = decimal.NewFromInt(100)

// Discount is an immutable percentage in [0,100].
type Discount struct {
	percentage decimal.Decimal
}

// NewDiscount validates the range. Out-of-range percentages are rejected at
// construction so no invalid Discount value can exist.
func NewDiscount(percentage decimal.Decimal) (Discount, error) {
	if percentage.IsNegative() || percentage.GreaterThan(oneHundred) {
		return Discount{}, apierror.Validation("discount percentage must be between 0 and 100").
			WithContext("percentage", percentage.String())
	}
	return Discount{percentage: percentage}, nil
}

// Percentage returns the raw percentage value.
func (d Discount) Percentage() decimal.Decimal { return d.percentage }

// AllowedForRole reports whether role may apply this discount.
func (d Discount) AllowedForRole(role string) bool {
	ceiling, ok := roleDiscountCeiling[role]
	if !ok {
		ceiling = defaultDiscountCeiling
	}
	return d.percentage.LessThanOrEqual(ceiling)
}

// Apply computes the discount amount for the given base.
func (d Discount) Apply(amount Money) Money {
	return amount.ApplyPercentage(d.percentage)
}
