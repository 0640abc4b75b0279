package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/domain"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/dto"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/model"
)

// SaleRepository is the transaction ledger access contract.
type SaleRepository interface {
	// CreateWithItemsTx inserts the sale and its item snapshot in one go.
	// Returns ErrDuplicateSaleNumber when the (outlet_id, sale_number) unique
	// index rejects the row so the caller can retry with the next counter.
	CreateWithItemsTx(tx *gorm.DB, s *model.Sale) error

	// GetLastSaleForOutletTx reads the outlet's most recent sale inside the
	// checkout transaction. Returns nil when the outlet has no sales yet.
	GetLastSaleForOutletTx(tx *gorm.DB, outletID uuid.UUID) (*domain.LastSale, error)

	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, tenantID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error)

	DB() *gorm.DB
}

// ErrDuplicateSaleNumber signals a sale-number collision under concurrent
// checkouts on the same outlet and day.
var ErrDuplicateSaleNumber = errors.New("duplicate sale number")

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) CreateWithItemsTx(tx *gorm.DB, s *model.Sale) error {
	if err := tx.Create(s).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSaleNumber
		}
		return err
	}
	return nil
}

func (r *saleRepo) GetLastSaleForOutletTx(tx *gorm.DB, outletID uuid.UUID) (*domain.LastSale, error) {
	var s model.Sale
	err := tx.Select("sale_number", "created_at").
		Where("outlet_id = ?", outletID).
		Order("created_at DESC").
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.LastSale{SaleNumber: s.SaleNumber, CreatedAt: s.CreatedAt}, nil
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Items").First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *saleRepo) List(ctx context.Context, tenantID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Sale{}).Where("tenant_id = ?", tenantID)

	if filter.OutletID != "" {
		q = q.Where("outlet_id = ?", filter.OutletID)
	}
	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
	} else {
		// Default: today
		q = q.Where("DATE(created_at) = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error
	return sales, total, err
}

func (r *saleRepo) DB() *gorm.DB { return r.db }
