package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart lifecycle states. A cart moves active ⇄ hold and terminates in
// completed or abandoned; completed carts stay as empty audit records linked
// to their sale.
const (
	CartStatusActive    = "active"
	CartStatusHold      = "hold"
	CartStatusCompleted = "completed"
	CartStatusAbandoned = "abandoned"
)

// Cart is the mutable basket a user session builds up before checkout.
// Invariant, re-established after every mutation: Subtotal = Σ item line
// totals, Total = Subtotal − DiscountAmount.
type Cart struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	OutletID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null"`
	CustomerID      *uuid.UUID `gorm:"type:uuid"`
	HoldName        *string    // label shown when the cart is parked
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DiscountPct     decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Status          string          `gorm:"not null;default:'active';index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items []CartItem `gorm:"foreignKey:CartID"`
}

// CartItem is one line of a cart. LineTotal = UnitPrice × Quantity; IsCustom
// is copied from the product so checkout can skip stock handling without a
// second lookup.
type CartItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CartID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Name      string          `gorm:"not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IsCustom  bool            `gorm:"not null;default:false"`
	CreatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
