package model

import (
	"time"

	"github.com/google/uuid"
)

// StockMovement records every inventory change: one row per decrement at
// checkout, per manual adjustment, and per transfer leg. Quantity is signed
// (positive = into the outlet, negative = out).
type StockMovement struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null;index"`
	OutletID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Type           string    `gorm:"not null"` // "sale" | "adjustment" | "transfer_out" | "transfer_in"
	Quantity       int       `gorm:"not null"`
	QuantityBefore int       `gorm:"not null"`
	QuantityAfter  int       `gorm:"not null"`
	Reason         string
	ReferenceID    *uuid.UUID `gorm:"type:uuid"` // sale id or transfer counterpart, if applicable
	CreatedAt      time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

// TableName overrides GORM's default pluralization.
func (StockMovement) TableName() string { return "stock_movements" }
