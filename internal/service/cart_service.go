package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/apierror"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/domain"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/dto"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/model"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/repository"
)

// CartService owns the mutable basket. Every mutation runs under the cart's
// row lock and re-establishes the totals invariant before committing:
// subtotal = Σ line totals, total = subtotal − discount.
type CartService interface {
	Create(ctx context.Context, tenantID, outletID, userID uuid.UUID, customerID *uuid.UUID) (*dto.CartResponse, error)
	Get(ctx context.Context, cartID uuid.UUID) (*dto.CartResponse, error)
	AddItem(ctx context.Context, cartID uuid.UUID, req dto.AddCartItemRequest) (*dto.CartResponse, error)
	UpdateItem(ctx context.Context, cartID, itemID uuid.UUID, req dto.UpdateCartItemRequest) (*dto.CartResponse, error)
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*dto.CartResponse, error)
	ApplyDiscount(ctx context.Context, cartID uuid.UUID, role string, req dto.ApplyDiscountRequest) (*dto.CartResponse, error)
	Hold(ctx context.Context, cartID uuid.UUID, name string) (*dto.CartResponse, error)
	Resume(ctx context.Context, cartID uuid.UUID) (*dto.CartResponse, error)
	Abandon(ctx context.Context, cartID uuid.UUID) error
}

type cartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository) CartService {
	return &cartService{carts: carts, products: products}
}

func (s *cartService) Create(ctx context.Context, tenantID, outletID, userID uuid.UUID, customerID *uuid.UUID) (*dto.CartResponse, error) {
	cart := &model.Cart{
		TenantID:   tenantID,
		OutletID:   outletID,
		UserID:     userID,
		CustomerID: customerID,
		Status:     model.CartStatusActive,
		Subtotal:   decimal.Zero,
		Total:      decimal.Zero,
	}
	if err := s.carts.Create(ctx, cart); err != nil {
		return nil, err
	}
	return cartToResponse(cart), nil
}

func (s *cartService) Get(ctx context.Context, cartID uuid.UUID) (*dto.CartResponse, error) {
	cart, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("cart not found")
		}
		return nil, err
	}
	return cartToResponse(cart), nil
}

// mutate loads the cart under FOR UPDATE, applies fn, recomputes totals and
// saves — the serialization point for all concurrent edits of one cart.
func (s *cartService) mutate(ctx context.Context, cartID uuid.UUID, wantStatus []string, fn func(tx *gorm.DB, cart *model.Cart) error) (*dto.CartResponse, error) {
	var out *dto.CartResponse
	txErr := runTx(ctx, s.carts.DB(), func(tx *gorm.DB) error {
		cart, err := s.carts.FindByIDForUpdateTx(tx, cartID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("cart not found")
			}
			return err
		}
		if !statusIn(cart.Status, wantStatus) {
			return apierror.Business(apierror.CodeInvalidOperation,
				"cart is not in a state that allows this operation").
				WithContext("status", cart.Status)
		}
		if err := fn(tx, cart); err != nil {
			return err
		}
		if err := recalcTotals(cart); err != nil {
			return err
		}
		if err := s.carts.SaveTx(tx, cart); err != nil {
			return err
		}
		out = cartToResponse(cart)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return out, nil
}

func (s *cartService) AddItem(ctx context.Context, cartID uuid.UUID, req dto.AddCartItemRequest) (*dto.CartResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apierror.Validation("invalid product_id")
	}
	return s.mutate(ctx, cartID, []string{model.CartStatusActive}, func(tx *gorm.DB, cart *model.Cart) error {
		product, err := s.products.FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("product not found").WithContext("product_id", req.ProductID)
			}
			return err
		}
		if !product.Active {
			return apierror.Business(apierror.CodeInvalidOperation,
				"inactive product cannot be sold").WithContext("product_name", product.Name)
		}

		// Same product twice merges into one line.
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				cart.Items[i].Quantity += req.Quantity
				cart.Items[i].LineTotal = lineTotal(cart.Items[i].UnitPrice, cart.Items[i].Quantity)
				return s.carts.SaveItemTx(tx, &cart.Items[i])
			}
		}

		item := model.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  req.Quantity,
			UnitPrice: product.Price,
			LineTotal: lineTotal(product.Price, req.Quantity),
			IsCustom:  product.IsCustom,
		}
		if err := s.carts.CreateItemTx(tx, &item); err != nil {
			return err
		}
		cart.Items = append(cart.Items, item)
		return nil
	})
}

func (s *cartService) UpdateItem(ctx context.Context, cartID, itemID uuid.UUID, req dto.UpdateCartItemRequest) (*dto.CartResponse, error) {
	return s.mutate(ctx, cartID, []string{model.CartStatusActive}, func(tx *gorm.DB, cart *model.Cart) error {
		for i := range cart.Items {
			if cart.Items[i].ID == itemID {
				cart.Items[i].Quantity = req.Quantity
				cart.Items[i].LineTotal = lineTotal(cart.Items[i].UnitPrice, req.Quantity)
				return s.carts.SaveItemTx(tx, &cart.Items[i])
			}
		}
		return apierror.NotFound("cart item not found").WithContext("item_id", itemID.String())
	})
}

func (s *cartService) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*dto.CartResponse, error) {
	return s.mutate(ctx, cartID, []string{model.CartStatusActive}, func(tx *gorm.DB, cart *model.Cart) error {
		for i := range cart.Items {
			if cart.Items[i].ID == itemID {
				if err := s.carts.DeleteItemTx(tx, itemID); err != nil {
					return err
				}
				cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
				return nil
			}
		}
		return apierror.NotFound("cart item not found").WithContext("item_id", itemID.String())
	})
}

// ApplyDiscount sets the cart-level percentage discount. The role gate is
// enforced here, at the point of application — the UI check alone is not a
// control.
func (s *cartService) ApplyDiscount(ctx context.Context, cartID uuid.UUID, role string, req dto.ApplyDiscountRequest) (*dto.CartResponse, error) {
	discount, err := domain.NewDiscount(req.Percentage)
	if err != nil {
		return nil, err
	}
	if !discount.AllowedForRole(role) {
		return nil, apierror.Business(apierror.CodeInsufficientPermissions,
			"discount exceeds the ceiling for this role").
			WithContext("role", role).
			WithContext("percentage", req.Percentage.String())
	}
	return s.mutate(ctx, cartID, []string{model.CartStatusActive}, func(tx *gorm.DB, cart *model.Cart) error {
		cart.DiscountPct = discount.Percentage()
		return nil
	})
}

func (s *cartService) Hold(ctx context.Context, cartID uuid.UUID, name string) (*dto.CartResponse, error) {
	return s.mutate(ctx, cartID, []string{model.CartStatusActive}, func(tx *gorm.DB, cart *model.Cart) error {
		cart.Status = model.CartStatusHold
		cart.HoldName = &name
		return nil
	})
}

func (s *cartService) Resume(ctx context.Context, cartID uuid.UUID) (*dto.CartResponse, error) {
	return s.mutate(ctx, cartID, []string{model.CartStatusHold}, func(tx *gorm.DB, cart *model.Cart) error {
		cart.Status = model.CartStatusActive
		cart.HoldName = nil
		return nil
	})
}

func (s *cartService) Abandon(ctx context.Context, cartID uuid.UUID) error {
	_, err := s.mutate(ctx, cartID, []string{model.CartStatusActive, model.CartStatusHold}, func(tx *gorm.DB, cart *model.Cart) error {
		cart.Status = model.CartStatusAbandoned
		return nil
	})
	return err
}

// ── Totals ───────────────────────────────────────────────────────────────────

func lineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return domain.NewMoney(unitPrice).MulInt(int64(quantity)).Decimal()
}

// recalcTotals re-derives the cart invariant from its lines.
func recalcTotals(cart *model.Cart) error {
	subtotal := domain.Zero()
	for _, item := range cart.Items {
		subtotal = subtotal.Add(domain.NewMoney(item.LineTotal))
	}
	discount, err := domain.NewDiscount(cart.DiscountPct)
	if err != nil {
		return err
	}
	discountAmount := discount.Apply(subtotal)
	cart.Subtotal = subtotal.Decimal()
	cart.DiscountAmount = discountAmount.Decimal()
	cart.Total = subtotal.Sub(discountAmount).Decimal()
	return nil
}

func statusIn(status string, allowed []string) bool {
	for _, s := range allowed {
		if status == s {
			return true
		}
	}
	return false
}

func cartToResponse(cart *model.Cart) *dto.CartResponse {
	items := make([]dto.CartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, dto.CartItemResponse{
			ID:        item.ID.String(),
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		})
	}
	resp := &dto.CartResponse{
		ID:             cart.ID.String(),
		OutletID:       cart.OutletID.String(),
		Status:         cart.Status,
		Items:          items,
		Subtotal:       cart.Subtotal,
		DiscountPct:    cart.DiscountPct,
		DiscountAmount: cart.DiscountAmount,
		Total:          cart.Total,
	}
	if cart.CustomerID != nil {
		id := cart.CustomerID.String()
		resp.CustomerID = &id
	}
	return resp
}
