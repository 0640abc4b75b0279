package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/apierror"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/domain"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/dto"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/model"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/repository"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/worker"
)

// CheckoutService turns a populated cart into an immutable, numbered sale.
type CheckoutService interface {
	Complete(ctx context.Context, userID uuid.UUID, role string, req dto.CheckoutRequest) (*dto.SaleResponse, error)
	GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, tenantID uuid.UUID, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type checkoutService struct {
	carts       repository.CartRepository
	sales       repository.SaleRepository
	inventories repository.InventoryRepository
	movements   repository.StockMovementRepository
	dispatcher  *worker.Dispatcher
}

func NewCheckoutService(
	carts repository.CartRepository,
	sales repository.SaleRepository,
	inventories repository.InventoryRepository,
	movements repository.StockMovementRepository,
	dispatcher *worker.Dispatcher,
) CheckoutService {
	return &checkoutService{
		carts:       carts,
		sales:       sales,
		inventories: inventories,
		movements:   movements,
		dispatcher:  dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// runNested opens a savepoint on tx so a failed insert (unique violation on
// the sale number) does not abort the outer transaction, leaving room for a
// retry with the next counter.
func runNested(tx *gorm.DB, fn func(tx *gorm.DB) error) error {
	if tx == nil {
		return fn(nil)
	}
	return tx.Transaction(fn)
}

// saleNumberRetries bounds the counter-bump loop under concurrent checkouts on
// the same outlet and day.
const saleNumberRetries = 3

// resolvedLine pairs a cart line with the inventory row locked for it.
type resolvedLine struct {
	item model.CartItem
	inv  *model.Inventory
}

// ── Complete ─────────────────────────────────────────────────────────────────
// The whole checkout runs in ONE transaction with row locks on the touched
// inventory rows, so no concurrent reader can observe a persisted sale with
// stale stock:
//   1. load + lock cart, reject empty or terminal carts
//   2. lock inventory per non-custom line, validate availability
//   3. build and validate the payment against the cart total
//   4. derive the sale number from the outlet's last sale
//   5. insert sale + item snapshot (unique index retry on number collision)
//   6. conditional atomic stock decrement per line + movement audit rows
//   7. close the cart (status=completed, items deleted)
// Failures from step 5 onward are wrapped as FATAL_STATE_DIVERGENCE and logged
// loudly before the rollback propagates.

func (s *checkoutService) Complete(ctx context.Context, userID uuid.UUID, role string, req dto.CheckoutRequest) (*dto.SaleResponse, error) {
	cartID, err := uuid.Parse(req.CartID)
	if err != nil {
		return nil, apierror.Validation("invalid cart_id")
	}

	var sale model.Sale
	var payment domain.Payment

	txErr := runTx(ctx, s.carts.DB(), func(tx *gorm.DB) error {
		cart, err := s.carts.FindByIDForUpdateTx(tx, cartID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("cart not found").WithContext("cart_id", req.CartID)
			}
			return err
		}
		if cart.Status != model.CartStatusActive && cart.Status != model.CartStatusHold {
			return apierror.Business(apierror.CodeInvalidOperation,
				"cart is not open for checkout").WithContext("status", cart.Status)
		}
		if len(cart.Items) == 0 {
			return apierror.Business(apierror.CodeInvalidOperation,
				"cannot complete a sale from an empty cart")
		}

		// 1. Stock validation — lock each non-custom line's inventory row for
		// the rest of the transaction. Custom products carry no inventory.
		resolved := make([]resolvedLine, 0, len(cart.Items))
		for _, item := range cart.Items {
			if item.IsCustom {
				resolved = append(resolved, resolvedLine{item: item})
				continue
			}
			inv, err := s.inventories.FindByProductAndOutletForUpdateTx(tx, item.ProductID, cart.OutletID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apierror.NotFound("inventory record not found").
						WithContext("product_id", item.ProductID.String()).
						WithContext("outlet_id", cart.OutletID.String())
				}
				return err
			}
			if inv.Quantity < item.Quantity {
				return insufficientStock(item.Name, inv.Quantity, item.Quantity)
			}
			resolved = append(resolved, resolvedLine{item: item, inv: inv})
		}

		// 2. Payment construction and validation. Validated here, against the
		// total as persisted right now — not the total the client saw.
		total := domain.NewMoney(cart.Total)
		payment, err = buildPayment(req.Payment)
		if err != nil {
			return err
		}
		if err := payment.Validate(total); err != nil {
			return err
		}

		// 3. Sale number from the outlet's most recent sale. The clock is read
		// once so a collision retry keeps the same date as the number it bumps.
		now := time.Now().UTC()
		last, err := s.sales.GetLastSaleForOutletTx(tx, cart.OutletID)
		if err != nil {
			return err
		}
		number, err := domain.NextSaleNumber(last, now)
		if err != nil {
			log.Error().
				Str("outlet_id", cart.OutletID.String()).
				Err(err).
				Msg("checkout: stored sale number is corrupt — refusing to mint a possibly duplicate number")
			return err
		}

		// 4. Persist sale + item snapshot. A unique-index collision means a
		// concurrent checkout took our number; bump the counter and retry.
		sale = buildSale(cart, userID, payment, total)
		createErr := repository.ErrDuplicateSaleNumber
		for attempt := 0; attempt < saleNumberRetries && errors.Is(createErr, repository.ErrDuplicateSaleNumber); attempt++ {
			sale.SaleNumber = number
			createErr = runNested(tx, func(nested *gorm.DB) error {
				return s.sales.CreateWithItemsTx(nested, &sale)
			})
			if errors.Is(createErr, repository.ErrDuplicateSaleNumber) {
				counter, perr := domain.ParseSaleNumberCounter(number)
				if perr != nil {
					return perr
				}
				number = domain.FormatSaleNumber(now.Format("20060102"), counter+1)
				sale.Items = cloneItems(cart.Items)
			}
		}
		if errors.Is(createErr, repository.ErrDuplicateSaleNumber) {
			return apierror.Conflict(apierror.CodeDuplicateSaleNumber,
				"could not allocate a sale number, too many concurrent checkouts").
				WithContext("outlet_id", cart.OutletID.String())
		}
		if createErr != nil {
			return createErr
		}

		// 5. Inventory decrement — single conditional UPDATE per line, guarded
		// by quantity >= n. The rows are still locked from step 1, so the
		// quantities recorded below are the ones validated there.
		for _, line := range resolved {
			if line.inv == nil {
				continue
			}
			rows, err := s.inventories.DecrementStockTx(tx, line.inv.ID, line.item.Quantity)
			if err != nil {
				return s.fatal(sale.SaleNumber, "inventory decrement failed after sale insert", err)
			}
			if rows == 0 {
				return insufficientStock(line.item.Name, line.inv.Quantity, line.item.Quantity)
			}
			mov := &model.StockMovement{
				ProductID:      line.item.ProductID,
				OutletID:       cart.OutletID,
				Type:           "sale",
				Quantity:       -line.item.Quantity,
				QuantityBefore: line.inv.Quantity,
				QuantityAfter:  line.inv.Quantity - line.item.Quantity,
				Reason:         "Sale " + sale.SaleNumber,
				ReferenceID:    &sale.ID,
			}
			if err := s.movements.CreateTx(tx, mov); err != nil {
				return s.fatal(sale.SaleNumber, "stock movement insert failed after sale insert", err)
			}
		}

		// 6. Close the cart. It remains as an empty terminal record for audit
		// linkage; only its items are deleted.
		if err := s.carts.DeleteAllItemsTx(tx, cart.ID); err != nil {
			return s.fatal(sale.SaleNumber, "cart item cleanup failed after sale insert", err)
		}
		cart.Status = model.CartStatusCompleted
		cart.Subtotal = decimal.Zero
		cart.DiscountPct = decimal.Zero
		cart.DiscountAmount = decimal.Zero
		cart.Total = decimal.Zero
		if err := s.carts.SaveTx(tx, cart); err != nil {
			return s.fatal(sale.SaleNumber, "cart closure failed after sale insert", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("sale_id", sale.ID.String()).
		Str("sale_number", sale.SaleNumber).
		Str("outlet_id", sale.OutletID.String()).
		Str("total", sale.Total.String()).
		Msg("checkout: sale completed")

	// Async receipt job — best-effort, fire & forget.
	if s.dispatcher != nil {
		payload := worker.ReceiptJobPayload{SaleID: sale.ID.String(), CustomerEmail: req.CustomerEmail}
		_ = s.dispatcher.EnqueueReceipt(ctx, payload)
	}

	return saleToResponse(&sale), nil
}

// fatal wraps a post-persistence failure. The transaction will roll back, but
// the condition is logged at error level with full context first: if the
// rollback itself fails the operator needs enough to reconcile by hand.
func (s *checkoutService) fatal(saleNumber, msg string, cause error) error {
	log.Error().
		Str("sale_number", saleNumber).
		Err(cause).
		Msg("checkout: " + msg)
	return apierror.Fatal(apierror.CodeStateDivergence, msg, cause).
		WithContext("sale_number", saleNumber)
}

func insufficientStock(productName string, available, requested int) error {
	return apierror.Business(apierror.CodeInsufficientStock, "insufficient stock").
		WithContext("product_name", productName).
		WithContext("available", available).
		WithContext("requested", requested)
}

func buildPayment(in dto.PaymentInput) (domain.Payment, error) {
	var cash, card *domain.Money
	if in.CashReceived != nil {
		m := domain.NewMoney(*in.CashReceived)
		cash = &m
	}
	if in.CardAmount != nil {
		m := domain.NewMoney(*in.CardAmount)
		card = &m
	}
	return domain.NewPayment(domain.PaymentMethod(in.Method), cash, card)
}

func buildSale(cart *model.Cart, userID uuid.UUID, payment domain.Payment, total domain.Money) model.Sale {
	sale := model.Sale{
		TenantID:       cart.TenantID,
		OutletID:       cart.OutletID,
		UserID:         userID,
		CustomerID:     cart.CustomerID,
		CartID:         cart.ID,
		Subtotal:       cart.Subtotal,
		DiscountAmount: cart.DiscountAmount,
		Total:          cart.Total,
		PaymentMethod:  string(payment.Method()),
		Items:          cloneItems(cart.Items),
	}
	if received := payment.CashReceived(); received != nil {
		d := received.Decimal()
		sale.CashReceived = &d
	}
	if card := payment.CardAmount(); card != nil {
		d := card.Decimal()
		sale.CardAmount = &d
	}
	if payment.Method() != domain.PaymentCard {
		change := payment.Change(total).Decimal()
		sale.Change = &change
	}
	return sale
}

// cloneItems snapshots cart lines by value: name and unit price at the instant
// of sale, detached from the live product.
func cloneItems(items []model.CartItem) []model.SaleItem {
	out := make([]model.SaleItem, 0, len(items))
	for _, item := range items {
		out = append(out, model.SaleItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
			IsCustom:  item.IsCustom,
		})
	}
	return out
}

// ── Read side ────────────────────────────────────────────────────────────────

func (s *checkoutService) GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("sale not found")
		}
		return nil, err
	}
	return saleToResponse(sale), nil
}

func (s *checkoutService) ListSales(ctx context.Context, tenantID uuid.UUID, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.sales.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		data = append(data, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func saleToResponse(s *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		})
	}
	return &dto.SaleResponse{
		ID:             s.ID.String(),
		SaleNumber:     s.SaleNumber,
		OutletID:       s.OutletID.String(),
		Items:          items,
		Subtotal:       s.Subtotal,
		DiscountAmount: s.DiscountAmount,
		Total:          s.Total,
		PaymentMethod:  s.PaymentMethod,
		CashReceived:   s.CashReceived,
		CardAmount:     s.CardAmount,
		Change:         s.Change,
		CreatedAt:      s.CreatedAt.Format(time.RFC3339),
	}
}
