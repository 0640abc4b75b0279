package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/domain"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/dto"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/model"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/repository"
)

// In-memory repository stubs. All Tx methods accept a nil *gorm.DB: the
// services run their transaction helpers in pass-through mode when the
// repository reports no database.

// ── Cart repo ─────────────────────────────────────────────────────────────────

type stubCartRepo struct {
	mu    sync.Mutex
	carts map[uuid.UUID]*model.Cart
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{carts: make(map[uuid.UUID]*model.Cart)}
}

func (r *stubCartRepo) Create(_ context.Context, cart *model.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	r.carts[cart.ID] = cart
	return nil
}

func (r *stubCartRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cart, nil
}

func (r *stubCartRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	// Copy, as a transaction snapshot would: mutations only land via SaveTx.
	cp := *cart
	cp.Items = append([]model.CartItem(nil), cart.Items...)
	return &cp, nil
}

// SaveTx persists scalar cart fields only — items live in their own "table"
// and change through the item methods, like the real repository's
// Omit("Items") save.
func (r *stubCartRepo) SaveTx(_ *gorm.DB, cart *model.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.carts[cart.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *cart
	cp.Items = stored.Items
	r.carts[cart.ID] = &cp
	return nil
}

func (r *stubCartRepo) CreateItemTx(_ *gorm.DB, item *model.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	cart, ok := r.carts[item.CartID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cart.Items = append(cart.Items, *item)
	return nil
}

func (r *stubCartRepo) SaveItemTx(_ *gorm.DB, item *model.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[item.CartID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range cart.Items {
		if cart.Items[i].ID == item.ID {
			cart.Items[i] = *item
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubCartRepo) DeleteItemTx(_ *gorm.DB, itemID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cart := range r.carts {
		for i := range cart.Items {
			if cart.Items[i].ID == itemID {
				cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (r *stubCartRepo) DeleteAllItemsTx(_ *gorm.DB, cartID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cart, ok := r.carts[cartID]; ok {
		cart.Items = nil
	}
	return nil
}

func (r *stubCartRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cart.Status = status
	return nil
}

func (r *stubCartRepo) DB() *gorm.DB { return nil }

var _ repository.CartRepository = (*stubCartRepo)(nil)

// ── Product repo ──────────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindBySKU(_ context.Context, tenantID uuid.UUID, sku string) (*model.Product, error) {
	for _, p := range r.products {
		if p.TenantID == tenantID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Inventory repo ────────────────────────────────────────────────────────────

// stubInventoryRepo guards every access with a mutex so the concurrent
// checkout test exercises the conditional decrement the way the database
// would: exactly one winner for the last unit.
type stubInventoryRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]*model.Inventory
	// decrementErr, when set, makes DecrementStockTx fail without touching
	// the record, like a connection dropped mid-transaction.
	decrementErr error
}

func newStubInventoryRepo() *stubInventoryRepo {
	return &stubInventoryRepo{records: make(map[uuid.UUID]*model.Inventory)}
}

func (r *stubInventoryRepo) Create(_ context.Context, inv *model.Inventory) error {
	return r.CreateTx(nil, inv)
}

func (r *stubInventoryRepo) CreateTx(_ *gorm.DB, inv *model.Inventory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	cp := *inv
	r.records[inv.ID] = &cp
	return nil
}

func (r *stubInventoryRepo) find(productID, outletID uuid.UUID) (*model.Inventory, error) {
	for _, inv := range r.records {
		if inv.ProductID == productID && inv.OutletID == outletID {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubInventoryRepo) FindByProductAndOutlet(_ context.Context, productID, outletID uuid.UUID) (*model.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(productID, outletID)
}

func (r *stubInventoryRepo) FindByProductAndOutletForUpdateTx(_ *gorm.DB, productID, outletID uuid.UUID) (*model.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(productID, outletID)
}

func (r *stubInventoryRepo) DecrementStockTx(_ *gorm.DB, id uuid.UUID, quantity int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.decrementErr != nil {
		return 0, r.decrementErr
	}
	inv, ok := r.records[id]
	if !ok || inv.Quantity < quantity {
		return 0, nil
	}
	inv.Quantity -= quantity
	return 1, nil
}

func (r *stubInventoryRepo) CreditStockTx(_ *gorm.DB, id uuid.UUID, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.records[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	inv.Quantity += quantity
	return nil
}

func (r *stubInventoryRepo) UpdateThresholdsTx(_ *gorm.DB, id uuid.UUID, minStock, maxStock *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.records[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	inv.MinStock, inv.MaxStock = minStock, maxStock
	return nil
}

func (r *stubInventoryRepo) ListBelowMin(_ context.Context) ([]model.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Inventory
	for _, inv := range r.records {
		if inv.MinStock != nil && inv.Quantity < *inv.MinStock {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *stubInventoryRepo) quantity(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[id].Quantity
}

func (r *stubInventoryRepo) DB() *gorm.DB { return nil }

var _ repository.InventoryRepository = (*stubInventoryRepo)(nil)

// ── Sale repo ─────────────────────────────────────────────────────────────────

type stubSaleRepo struct {
	mu    sync.Mutex
	sales map[uuid.UUID]*model.Sale
	// byOutletNumber enforces the (outlet_id, sale_number) unique index.
	byOutletNumber map[string]uuid.UUID
	lastByOutlet   map[uuid.UUID]*domain.LastSale
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{
		sales:          make(map[uuid.UUID]*model.Sale),
		byOutletNumber: make(map[string]uuid.UUID),
		lastByOutlet:   make(map[uuid.UUID]*domain.LastSale),
	}
}

func (r *stubSaleRepo) CreateWithItemsTx(_ *gorm.DB, s *model.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := s.OutletID.String() + "/" + s.SaleNumber
	if _, taken := r.byOutletNumber[key]; taken {
		return repository.ErrDuplicateSaleNumber
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	for i := range s.Items {
		if s.Items[i].ID == uuid.Nil {
			s.Items[i].ID = uuid.New()
		}
		s.Items[i].SaleID = s.ID
	}
	cp := *s
	r.sales[s.ID] = &cp
	r.byOutletNumber[key] = s.ID
	r.lastByOutlet[s.OutletID] = &domain.LastSale{SaleNumber: s.SaleNumber, CreatedAt: s.CreatedAt}
	return nil
}

// reserveNumber takes a (outlet, number) slot without recording a sale, the
// way a concurrent transaction's committed insert would occupy the unique
// index before this one reads the outlet's last sale.
func (r *stubSaleRepo) reserveNumber(outletID uuid.UUID, number string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byOutletNumber[outletID.String()+"/"+number] = uuid.New()
}

func (r *stubSaleRepo) GetLastSaleForOutletTx(_ *gorm.DB, outletID uuid.UUID) (*domain.LastSale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastByOutlet[outletID], nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) List(_ context.Context, tenantID uuid.UUID, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Sale
	for _, s := range r.sales {
		if s.TenantID == tenantID {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── Stock movement repo ───────────────────────────────────────────────────────

type stubMovementRepo struct {
	mu        sync.Mutex
	movements []model.StockMovement
	createErr error
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) ListByProduct(_ context.Context, productID uuid.UUID, limit int) ([]model.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *stubMovementRepo) byType(movementType string) []model.StockMovement {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.Type == movementType {
			out = append(out, m)
		}
	}
	return out
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)
