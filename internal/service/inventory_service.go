package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/apierror"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/dto"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/model"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/repository"
)

// InventoryService covers the two stock mutation entry points outside
// checkout: direct signed adjustments and outlet-to-outlet transfers. Both are
// atomic per call.
type InventoryService interface {
	AdjustStock(ctx context.Context, req dto.AdjustStockRequest) (*dto.InventoryResponse, error)
	Transfer(ctx context.Context, req dto.TransferStockRequest) (*dto.TransferResponse, error)
	GetStock(ctx context.Context, productID, outletID uuid.UUID) (*dto.InventoryResponse, error)
	ListMovements(ctx context.Context, productID uuid.UUID, limit int) ([]model.StockMovement, error)
}

type inventoryService struct {
	inventories repository.InventoryRepository
	products    repository.ProductRepository
	movements   repository.StockMovementRepository
}

func NewInventoryService(
	inventories repository.InventoryRepository,
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
) InventoryService {
	return &inventoryService{inventories: inventories, products: products, movements: movements}
}

func (s *inventoryService) AdjustStock(ctx context.Context, req dto.AdjustStockRequest) (*dto.InventoryResponse, error) {
	productID, outletID, err := parseProductOutlet(req.ProductID, req.OutletID)
	if err != nil {
		return nil, err
	}
	if req.MinStock != nil && req.MaxStock != nil && *req.MaxStock < *req.MinStock {
		return nil, apierror.Validation("max_stock cannot be lower than min_stock").
			WithContext("min_stock", *req.MinStock).
			WithContext("max_stock", *req.MaxStock)
	}

	var out *dto.InventoryResponse
	txErr := runTx(ctx, s.inventories.DB(), func(tx *gorm.DB) error {
		inv, err := s.inventories.FindByProductAndOutletForUpdateTx(tx, productID, outletID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("inventory record not found").
					WithContext("product_id", req.ProductID).
					WithContext("outlet_id", req.OutletID)
			}
			return err
		}

		if req.QuantityChange < 0 {
			rows, err := s.inventories.DecrementStockTx(tx, inv.ID, -req.QuantityChange)
			if err != nil {
				return err
			}
			if rows == 0 {
				return apierror.Business(apierror.CodeInsufficientStock,
					"adjustment would drive stock negative").
					WithContext("available", inv.Quantity).
					WithContext("requested", -req.QuantityChange)
			}
		} else if req.QuantityChange > 0 {
			if err := s.inventories.CreditStockTx(tx, inv.ID, req.QuantityChange); err != nil {
				return err
			}
		}

		if req.MinStock != nil || req.MaxStock != nil {
			minStock, maxStock := inv.MinStock, inv.MaxStock
			if req.MinStock != nil {
				minStock = req.MinStock
			}
			if req.MaxStock != nil {
				maxStock = req.MaxStock
			}
			if minStock != nil && maxStock != nil && *maxStock < *minStock {
				return apierror.Validation("max_stock cannot be lower than min_stock")
			}
			if err := s.inventories.UpdateThresholdsTx(tx, inv.ID, minStock, maxStock); err != nil {
				return err
			}
			inv.MinStock, inv.MaxStock = minStock, maxStock
		}

		if req.QuantityChange != 0 {
			mov := &model.StockMovement{
				ProductID:      productID,
				OutletID:       outletID,
				Type:           "adjustment",
				Quantity:       req.QuantityChange,
				QuantityBefore: inv.Quantity,
				QuantityAfter:  inv.Quantity + req.QuantityChange,
				Reason:         req.Reason,
			}
			if err := s.movements.CreateTx(tx, mov); err != nil {
				return err
			}
		}

		inv.Quantity += req.QuantityChange
		inv.LastUpdated = time.Now().UTC()
		out = inventoryToResponse(inv)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return out, nil
}

// Transfer debits the source outlet and credits the destination in one
// transaction. A missing destination record is created with a zero baseline
// before the credit.
func (s *inventoryService) Transfer(ctx context.Context, req dto.TransferStockRequest) (*dto.TransferResponse, error) {
	productID, fromOutletID, err := parseProductOutlet(req.ProductID, req.FromOutletID)
	if err != nil {
		return nil, err
	}
	toOutletID, err := uuid.Parse(req.ToOutletID)
	if err != nil {
		return nil, apierror.Validation("invalid outlet id")
	}
	if fromOutletID == toOutletID {
		return nil, apierror.Validation("cannot transfer stock to the same outlet")
	}

	var out *dto.TransferResponse
	txErr := runTx(ctx, s.inventories.DB(), func(tx *gorm.DB) error {
		source, err := s.inventories.FindByProductAndOutletForUpdateTx(tx, productID, fromOutletID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("source inventory record not found").
					WithContext("product_id", req.ProductID).
					WithContext("outlet_id", req.FromOutletID)
			}
			return err
		}

		dest, err := s.inventories.FindByProductAndOutletForUpdateTx(tx, productID, toOutletID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			dest = &model.Inventory{
				ProductID:   productID,
				OutletID:    toOutletID,
				Quantity:    0,
				LastUpdated: time.Now().UTC(),
			}
			if err := s.inventories.CreateTx(tx, dest); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		rows, err := s.inventories.DecrementStockTx(tx, source.ID, req.Quantity)
		if err != nil {
			return err
		}
		if rows == 0 {
			return apierror.Business(apierror.CodeInsufficientStock,
				"insufficient stock at the source outlet").
				WithContext("available", source.Quantity).
				WithContext("requested", req.Quantity)
		}
		if err := s.inventories.CreditStockTx(tx, dest.ID, req.Quantity); err != nil {
			return err
		}

		outMov := &model.StockMovement{
			ProductID:      productID,
			OutletID:       fromOutletID,
			Type:           "transfer_out",
			Quantity:       -req.Quantity,
			QuantityBefore: source.Quantity,
			QuantityAfter:  source.Quantity - req.Quantity,
			Reason:         req.Reason,
			ReferenceID:    &dest.ID,
		}
		if err := s.movements.CreateTx(tx, outMov); err != nil {
			return err
		}
		inMov := &model.StockMovement{
			ProductID:      productID,
			OutletID:       toOutletID,
			Type:           "transfer_in",
			Quantity:       req.Quantity,
			QuantityBefore: dest.Quantity,
			QuantityAfter:  dest.Quantity + req.Quantity,
			Reason:         req.Reason,
			ReferenceID:    &source.ID,
		}
		if err := s.movements.CreateTx(tx, inMov); err != nil {
			return err
		}

		source.Quantity -= req.Quantity
		dest.Quantity += req.Quantity
		source.LastUpdated = time.Now().UTC()
		dest.LastUpdated = source.LastUpdated
		out = &dto.TransferResponse{
			From: *inventoryToResponse(source),
			To:   *inventoryToResponse(dest),
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return out, nil
}

func (s *inventoryService) GetStock(ctx context.Context, productID, outletID uuid.UUID) (*dto.InventoryResponse, error) {
	inv, err := s.inventories.FindByProductAndOutlet(ctx, productID, outletID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("inventory record not found")
		}
		return nil, err
	}
	return inventoryToResponse(inv), nil
}

func (s *inventoryService) ListMovements(ctx context.Context, productID uuid.UUID, limit int) ([]model.StockMovement, error) {
	return s.movements.ListByProduct(ctx, productID, limit)
}

func parseProductOutlet(productID, outletID string) (uuid.UUID, uuid.UUID, error) {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return uuid.Nil, uuid.Nil, apierror.Validation("invalid product_id")
	}
	oid, err := uuid.Parse(outletID)
	if err != nil {
		return uuid.Nil, uuid.Nil, apierror.Validation("invalid outlet id")
	}
	return pid, oid, nil
}

func inventoryToResponse(inv *model.Inventory) *dto.InventoryResponse {
	return &dto.InventoryResponse{
		ID:          inv.ID.String(),
		ProductID:   inv.ProductID.String(),
		OutletID:    inv.OutletID.String(),
		Quantity:    inv.Quantity,
		MinStock:    inv.MinStock,
		MaxStock:    inv.MaxStock,
		LastUpdated: inv.LastUpdated.Format(time.RFC3339),
	}
}
