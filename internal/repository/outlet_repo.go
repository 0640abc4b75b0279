package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/model"
)

// OutletRepository is read-only here: outlet CRUD belongs to the admin
// surface, the checkout core only resolves alert addresses.
type OutletRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Outlet, error)
}

type outletRepo struct{ db *gorm.DB }

func NewOutletRepository(db *gorm.DB) OutletRepository { return &outletRepo{db: db} }

func (r *outletRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Outlet, error) {
	var o model.Outlet
	err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}
