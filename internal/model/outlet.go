package model

import (
	"time"

	"github.com/google/uuid"
)

// Outlet is a single physical store belonging to a tenant. The checkout core
// only reads it for the alert email address; outlet CRUD lives elsewhere.
type Outlet struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"not null"`
	AlertEmail *string   // low-stock alerts are mailed here when set
	Active     bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
