package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/model"
)

// CartRepository gives the checkout core and the cart use-cases access to the
// mutable basket. Totals recomputation is serialized per cart: every mutation
// first takes the row lock via FindByIDForUpdateTx, so concurrent item
// additions to the same cart cannot overwrite totals with a stale read.
type CartRepository interface {
	Create(ctx context.Context, cart *model.Cart) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cart, error)

	// FindByIDForUpdateTx loads the cart and its items under FOR UPDATE.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Cart, error)

	SaveTx(tx *gorm.DB, cart *model.Cart) error
	CreateItemTx(tx *gorm.DB, item *model.CartItem) error
	SaveItemTx(tx *gorm.DB, item *model.CartItem) error
	DeleteItemTx(tx *gorm.DB, itemID uuid.UUID) error
	DeleteAllItemsTx(tx *gorm.DB, cartID uuid.UUID) error

	// UpdateStatusTx flips the lifecycle status (hold/resume/abandon/complete).
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error

	DB() *gorm.DB
}

type cartRepo struct{ db *gorm.DB }

func NewCartRepository(db *gorm.DB) CartRepository { return &cartRepo{db: db} }

func (r *cartRepo) Create(ctx context.Context, cart *model.Cart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

func (r *cartRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).Preload("Items").First(&cart, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Cart, error) {
	var cart model.Cart
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&cart, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	// Items load after the lock is held, so they cannot change underneath us.
	if err := tx.Where("cart_id = ?", id).Order("created_at ASC").Find(&cart.Items).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepo) SaveTx(tx *gorm.DB, cart *model.Cart) error {
	return tx.Omit("Items").Save(cart).Error
}

func (r *cartRepo) CreateItemTx(tx *gorm.DB, item *model.CartItem) error {
	return tx.Create(item).Error
}

func (r *cartRepo) SaveItemTx(tx *gorm.DB, item *model.CartItem) error {
	return tx.Save(item).Error
}

func (r *cartRepo) DeleteItemTx(tx *gorm.DB, itemID uuid.UUID) error {
	return tx.Delete(&model.CartItem{}, "id = ?", itemID).Error
}

func (r *cartRepo) DeleteAllItemsTx(tx *gorm.DB, cartID uuid.UUID) error {
	return tx.Delete(&model.CartItem{}, "cart_id = ?", cartID).Error
}

func (r *cartRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Cart{}).Where("id = ?", id).Update("status", status).Error
}

func (r *cartRepo) DB() *gorm.DB { return r.db }
