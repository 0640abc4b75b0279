package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/apierror"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/dto"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/model"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/service"
)

type cartFixture struct {
	svc      service.CartService
	carts    *stubCartRepo
	products *stubProductRepo
}

func newCartFixture() *cartFixture {
	f := &cartFixture{carts: newStubCartRepo(), products: newStubProductRepo()}
	f.svc = service.NewCartService(f.carts, f.products)
	return f
}

func (f *cartFixture) seedProduct(name, price string) *model.Product {
	p := &model.Product{
		TenantID: uuid.New(),
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Active:   true,
	}
	_ = f.products.Create(context.Background(), p)
	return p
}

func (f *cartFixture) newCart(t *testing.T) uuid.UUID {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), uuid.New(), uuid.New(), uuid.New(), nil)
	require.NoError(t, err)
	return uuid.MustParse(resp.ID)
}

func TestCart_AddItemRecomputesTotals(t *testing.T) {
	f := newCartFixture()
	cartID := f.newCart(t)
	coffee := f.seedProduct("Americano 12oz", "3.50")
	muffin := f.seedProduct("Blueberry Muffin", "2.25")

	resp, err := f.svc.AddItem(context.Background(), cartID, dto.AddCartItemRequest{
		ProductID: coffee.ID.String(), Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "7", resp.Subtotal.String())

	resp, err = f.svc.AddItem(context.Background(), cartID, dto.AddCartItemRequest{
		ProductID: muffin.ID.String(), Quantity: 1,
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "9.25", resp.Subtotal.String())
	assert.Equal(t, "9.25", resp.Total.String())
}

func TestCart_AddSameProductMergesLines(t *testing.T) {
	f := newCartFixture()
	cartID := f.newCart(t)
	coffee := f.seedProduct("Americano 12oz", "3.50")

	_, err := f.svc.AddItem(context.Background(), cartID, dto.AddCartItemRequest{
		ProductID: coffee.ID.String(), Quantity: 1,
	})
	require.NoError(t, err)
	resp, err := f.svc.AddItem(context.Background(), cartID, dto.AddCartItemRequest{
		ProductID: coffee.ID.String(), Quantity: 2,
	})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, 3, resp.Items[0].Quantity)
	assert.Equal(t, "10.50", resp.Items[0].LineTotal.StringFixed(2))
}

func TestCart_AddInactiveProduct(t *testing.T) {
	f := newCartFixture()
	cartID := f.newCart(t)
	p := f.seedProduct("Seasonal Latte", "4.00")
	p.Active = false

	_, err := f.svc.AddItem(context.Background(), cartID, dto.AddCartItemRequest{
		ProductID: p.ID.String(), Quantity: 1,
	})
	assert.Equal(t, apierror.CodeInvalidOperation, apierror.CodeOf(err))
}

func TestCart_UpdateAndRemoveItem(t *testing.T) {
	f := newCartFixture()
	cartID := f.newCart(t)
	coffee := f.seedProduct("Americano 12oz", "3.50")

	resp, err := f.svc.AddItem(context.Background(), cartID, dto.AddCartItemRequest{
		ProductID: coffee.ID.String(), Quantity: 1,
	})
	require.NoError(t, err)
	itemID := uuid.MustParse(resp.Items[0].ID)

	resp, err = f.svc.UpdateItem(context.Background(), cartID, itemID, dto.UpdateCartItemRequest{Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, "14", resp.Total.String())

	resp, err = f.svc.RemoveItem(context.Background(), cartID, itemID)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.True(t, resp.Total.IsZero())
}

func TestCart_ApplyDiscountRecomputesTotals(t *testing.T) {
	f := newCartFixture()
	cartID := f.newCart(t)
	p := f.seedProduct("Gift Box", "100.00")

	_, err := f.svc.AddItem(context.Background(), cartID, dto.AddCartItemRequest{
		ProductID: p.ID.String(), Quantity: 1,
	})
	require.NoError(t, err)

	resp, err := f.svc.ApplyDiscount(context.Background(), cartID, "cashier", dto.ApplyDiscountRequest{
		Percentage: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Equal(t, "10", resp.DiscountAmount.String())
	assert.Equal(t, "90", resp.Total.String())
}

func TestCart_DiscountCeilingByRole(t *testing.T) {
	f := newCartFixture()
	cartID := f.newCart(t)

	// 11% exceeds the cashier ceiling
	_, err := f.svc.ApplyDiscount(context.Background(), cartID, "cashier", dto.ApplyDiscountRequest{
		Percentage: decimal.NewFromInt(11),
	})
	assert.Equal(t, apierror.CodeInsufficientPermissions, apierror.CodeOf(err))

	// managers can go deeper
	_, err = f.svc.ApplyDiscount(context.Background(), cartID, "manager", dto.ApplyDiscountRequest{
		Percentage: decimal.NewFromInt(50),
	})
	assert.NoError(t, err)
}

func TestCart_DiscountOutOfRange(t *testing.T) {
	f := newCartFixture()
	cartID := f.newCart(t)

	_, err := f.svc.ApplyDiscount(context.Background(), cartID, "admin", dto.ApplyDiscountRequest{
		Percentage: decimal.NewFromInt(101),
	})
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestCart_HoldResumeLifecycle(t *testing.T) {
	f := newCartFixture()
	cartID := f.newCart(t)

	resp, err := f.svc.Hold(context.Background(), cartID, "table 4")
	require.NoError(t, err)
	assert.Equal(t, model.CartStatusHold, resp.Status)

	// a held cart cannot take new items
	p := f.seedProduct("Espresso", "2.00")
	_, err = f.svc.AddItem(context.Background(), cartID, dto.AddCartItemRequest{
		ProductID: p.ID.String(), Quantity: 1,
	})
	assert.Equal(t, apierror.CodeInvalidOperation, apierror.CodeOf(err))

	resp, err = f.svc.Resume(context.Background(), cartID)
	require.NoError(t, err)
	assert.Equal(t, model.CartStatusActive, resp.Status)
}

func TestCart_ResumeRequiresHold(t *testing.T) {
	f := newCartFixture()
	cartID := f.newCart(t)

	_, err := f.svc.Resume(context.Background(), cartID)
	assert.Equal(t, apierror.CodeInvalidOperation, apierror.CodeOf(err))
}

func TestCart_AbandonIsTerminal(t *testing.T) {
	f := newCartFixture()
	cartID := f.newCart(t)

	require.NoError(t, f.svc.Abandon(context.Background(), cartID))

	err := f.svc.Abandon(context.Background(), cartID)
	assert.Equal(t, apierror.CodeInvalidOperation, apierror.CodeOf(err))
}

func TestCart_GetNotFound(t *testing.T) {
	f := newCartFixture()
	_, err := f.svc.Get(context.Background(), uuid.New())
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}
