package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/model"
)

// InventoryRepository is the data access contract for per-(product, outlet)
// stock records. The ...Tx methods are called inside checkout/transfer
// transactions — callers must pass the live tx instance.
type InventoryRepository interface {
	Create(ctx context.Context, inv *model.Inventory) error
	CreateTx(tx *gorm.DB, inv *model.Inventory) error
	FindByProductAndOutlet(ctx context.Context, productID, outletID uuid.UUID) (*model.Inventory, error)

	// FindByProductAndOutletForUpdateTx row-locks the record for the rest of
	// the transaction (SELECT ... FOR UPDATE).
	FindByProductAndOutletForUpdateTx(tx *gorm.DB, productID, outletID uuid.UUID) (*model.Inventory, error)

	// DecrementStockTx is the single conditional atomic decrement:
	// UPDATE ... SET quantity = quantity - n WHERE id = ? AND quantity >= n.
	// It returns the number of rows affected; zero means insufficient stock
	// and the caller must roll back.
	DecrementStockTx(tx *gorm.DB, id uuid.UUID, quantity int) (int64, error)

	// CreditStockTx adds quantity unconditionally (transfer credit, restock).
	CreditStockTx(tx *gorm.DB, id uuid.UUID, quantity int) error

	// UpdateThresholdsTx persists min/max stock levels.
	UpdateThresholdsTx(tx *gorm.DB, id uuid.UUID, minStock, maxStock *int) error

	// ListBelowMin returns records whose quantity fell under their min_stock.
	ListBelowMin(ctx context.Context) ([]model.Inventory, error)

	DB() *gorm.DB
}

type inventoryRepo struct{ db *gorm.DB }

func NewInventoryRepository(db *gorm.DB) InventoryRepository { return &inventoryRepo{db: db} }

func (r *inventoryRepo) Create(ctx context.Context, inv *model.Inventory) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *inventoryRepo) CreateTx(tx *gorm.DB, inv *model.Inventory) error {
	return tx.Create(inv).Error
}

func (r *inventoryRepo) FindByProductAndOutlet(ctx context.Context, productID, outletID uuid.UUID) (*model.Inventory, error) {
	var inv model.Inventory
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND outlet_id = ?", productID, outletID).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *inventoryRepo) FindByProductAndOutletForUpdateTx(tx *gorm.DB, productID, outletID uuid.UUID) (*model.Inventory, error) {
	var inv model.Inventory
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND outlet_id = ?", productID, outletID).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *inventoryRepo) DecrementStockTx(tx *gorm.DB, id uuid.UUID, quantity int) (int64, error) {
	res := tx.Model(&model.Inventory{}).
		Where("id = ? AND quantity >= ?", id, quantity).
		Updates(map[string]interface{}{
			"quantity":     gorm.Expr("quantity - ?", quantity),
			"last_updated": time.Now().UTC(),
			"sync_status":  "pending",
		})
	return res.RowsAffected, res.Error
}

func (r *inventoryRepo) CreditStockTx(tx *gorm.DB, id uuid.UUID, quantity int) error {
	return tx.Model(&model.Inventory{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":     gorm.Expr("quantity + ?", quantity),
			"last_updated": time.Now().UTC(),
			"sync_status":  "pending",
		}).Error
}

func (r *inventoryRepo) UpdateThresholdsTx(tx *gorm.DB, id uuid.UUID, minStock, maxStock *int) error {
	return tx.Model(&model.Inventory{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"min_stock": minStock,
			"max_stock": maxStock,
		}).Error
}

func (r *inventoryRepo) ListBelowMin(ctx context.Context) ([]model.Inventory, error) {
	var invs []model.Inventory
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("min_stock IS NOT NULL AND quantity < min_stock").
		Find(&invs).Error
	return invs, err
}

func (r *inventoryRepo) DB() *gorm.DB { return r.db }
