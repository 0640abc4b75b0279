package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is the immutable, numbered transaction record produced by checkout.
// It is created atomically with its items and never updated afterwards —
// refunds and voids are separate records, not mutations. SaleNumber is unique
// per outlet per day (unique index on outlet_id + sale_number).
type Sale struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	SaleNumber     string     `gorm:"not null;uniqueIndex:idx_sales_outlet_number"`
	OutletID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_sales_outlet_number;index"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null"`
	CustomerID     *uuid.UUID `gorm:"type:uuid"`
	CartID         uuid.UUID  `gorm:"type:uuid;not null"` // audit linkage to the closed cart
	Subtotal       decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	DiscountAmount decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	Total          decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	PaymentMethod  string           `gorm:"not null"` // cash | card | mixed
	CashReceived   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CardAmount     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Change         *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CreatedAt      time.Time `gorm:"index"`

	Items []SaleItem `gorm:"foreignKey:SaleID"`
}

// SaleItem is a value snapshot of a cart line at the instant of sale. Name and
// UnitPrice are copied, not referenced: later catalog changes must not
// retroactively alter a completed sale.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Name      string          `gorm:"not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IsCustom  bool            `gorm:"not null;default:false"`
	CreatedAt time.Time
}
