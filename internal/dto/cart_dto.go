package dto

import "github.com/shopspring/decimal"

type CreateCartRequest struct {
	OutletID   string  `json:"outlet_id"   validate:"required,uuid"`
	CustomerID *string `json:"customer_id" validate:"omitempty,uuid"`
}

type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type ApplyDiscountRequest struct {
	Percentage decimal.Decimal `json:"percentage" validate:"min=0,max=100"`
}

type HoldCartRequest struct {
	Name string `json:"name" validate:"required,min=1"`
}

type CartItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartResponse struct {
	ID             string             `json:"id"`
	OutletID       string             `json:"outlet_id"`
	CustomerID     *string            `json:"customer_id,omitempty"`
	Status         string             `json:"status"`
	Items          []CartItemResponse `json:"items"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	DiscountPct    decimal.Decimal    `json:"discount_pct"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	Total          decimal.Decimal    `json:"total"`
}
