package model

import (
	"time"

	"github.com/google/uuid"
)

// Inventory tracks on-hand quantity per (product, outlet). Quantity never goes
// below zero: every decrement is a conditional UPDATE guarded by
// quantity >= n, so two checkouts racing for the last unit cannot both win.
type Inventory struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventories_product_outlet"`
	OutletID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventories_product_outlet"`
	Quantity   int       `gorm:"not null;default:0"`
	MinStock   *int
	MaxStock   *int
	SyncStatus string    `gorm:"not null;default:'synced'"` // synced | pending
	LastUpdated time.Time
	CreatedAt  time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (Inventory) TableName() string { return "inventories" }
