package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// PaymentInput is the tender instruction sent with a checkout request.
// Amount fields are optional at the JSON level; the Payment constructor
// enforces which ones each method requires.
type PaymentInput struct {
	Method       string           `json:"method" validate:"required"`
	CashReceived *decimal.Decimal `json:"cash_received" validate:"omitempty"`
	CardAmount   *decimal.Decimal `json:"card_amount"   validate:"omitempty"`
}

// CheckoutRequest turns a cart into a sale.
type CheckoutRequest struct {
	CartID  string       `json:"cart_id" validate:"required,uuid"`
	Payment PaymentInput `json:"payment" validate:"required"`
	// CustomerEmail: optional — when present, the receipt worker mails the PDF.
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type SaleResponse struct {
	ID             string             `json:"id"`
	SaleNumber     string             `json:"sale_number"`
	OutletID       string             `json:"outlet_id"`
	Items          []SaleItemResponse `json:"items"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	Total          decimal.Decimal    `json:"total"`
	PaymentMethod  string             `json:"payment_method"`
	CashReceived   *decimal.Decimal   `json:"cash_received,omitempty"`
	CardAmount     *decimal.Decimal   `json:"card_amount,omitempty"`
	Change         *decimal.Decimal   `json:"change,omitempty"`
	CreatedAt      string             `json:"created_at"`
}

// ─── Listing ─────────────────────────────────────────────────────────────────

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	OutletID string `form:"outlet_id" validate:"omitempty,uuid"`
	Date     string `form:"date"` // YYYY-MM-DD; empty = today
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
