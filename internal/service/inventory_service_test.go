package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/apierror"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/dto"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/model"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/service"
)

type inventoryFixture struct {
	svc         service.InventoryService
	inventories *stubInventoryRepo
	movements   *stubMovementRepo
}

func newInventoryFixture() *inventoryFixture {
	f := &inventoryFixture{inventories: newStubInventoryRepo(), movements: &stubMovementRepo{}}
	f.svc = service.NewInventoryService(f.inventories, newStubProductRepo(), f.movements)
	return f
}

func (f *inventoryFixture) seed(productID, outletID uuid.UUID, quantity int) *model.Inventory {
	inv := &model.Inventory{ProductID: productID, OutletID: outletID, Quantity: quantity}
	_ = f.inventories.CreateTx(nil, inv)
	return inv
}

func intPtr(n int) *int { return &n }

func TestAdjustStock_PositiveDelta(t *testing.T) {
	f := newInventoryFixture()
	productID, outletID := uuid.New(), uuid.New()
	inv := f.seed(productID, outletID, 5)

	resp, err := f.svc.AdjustStock(context.Background(), dto.AdjustStockRequest{
		ProductID:      productID.String(),
		OutletID:       outletID.String(),
		QuantityChange: 7,
		Reason:         "weekly delivery",
	})
	require.NoError(t, err)
	assert.Equal(t, 12, resp.Quantity)
	assert.Equal(t, 12, f.inventories.quantity(inv.ID))

	movs := f.movements.byType("adjustment")
	require.Len(t, movs, 1)
	assert.Equal(t, 7, movs[0].Quantity)
	assert.Equal(t, "weekly delivery", movs[0].Reason)
}

func TestAdjustStock_NegativeDeltaGuarded(t *testing.T) {
	f := newInventoryFixture()
	productID, outletID := uuid.New(), uuid.New()
	inv := f.seed(productID, outletID, 3)

	// -5 against 3 on hand must fail without touching the row
	_, err := f.svc.AdjustStock(context.Background(), dto.AdjustStockRequest{
		ProductID:      productID.String(),
		OutletID:       outletID.String(),
		QuantityChange: -5,
	})
	assert.Equal(t, apierror.CodeInsufficientStock, apierror.CodeOf(err))
	assert.Equal(t, 3, f.inventories.quantity(inv.ID))

	resp, err := f.svc.AdjustStock(context.Background(), dto.AdjustStockRequest{
		ProductID:      productID.String(),
		OutletID:       outletID.String(),
		QuantityChange: -3,
		Reason:         "shrinkage",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Quantity)
}

func TestAdjustStock_Thresholds(t *testing.T) {
	f := newInventoryFixture()
	productID, outletID := uuid.New(), uuid.New()
	f.seed(productID, outletID, 10)

	_, err := f.svc.AdjustStock(context.Background(), dto.AdjustStockRequest{
		ProductID:      productID.String(),
		OutletID:       outletID.String(),
		QuantityChange: 0,
		MinStock:       intPtr(10),
		MaxStock:       intPtr(5),
	})
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	resp, err := f.svc.AdjustStock(context.Background(), dto.AdjustStockRequest{
		ProductID:      productID.String(),
		OutletID:       outletID.String(),
		QuantityChange: 0,
		MinStock:       intPtr(5),
		MaxStock:       intPtr(50),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.MinStock)
	assert.Equal(t, 5, *resp.MinStock)
	// zero-delta threshold updates write no movement row
	assert.Empty(t, f.movements.byType("adjustment"))
}

func TestAdjustStock_MissingRecord(t *testing.T) {
	f := newInventoryFixture()
	_, err := f.svc.AdjustStock(context.Background(), dto.AdjustStockRequest{
		ProductID:      uuid.New().String(),
		OutletID:       uuid.New().String(),
		QuantityChange: 1,
	})
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestTransfer_MovesStock(t *testing.T) {
	f := newInventoryFixture()
	productID, fromOutlet, toOutlet := uuid.New(), uuid.New(), uuid.New()
	src := f.seed(productID, fromOutlet, 10)
	dst := f.seed(productID, toOutlet, 1)

	resp, err := f.svc.Transfer(context.Background(), dto.TransferStockRequest{
		ProductID:    productID.String(),
		FromOutletID: fromOutlet.String(),
		ToOutletID:   toOutlet.String(),
		Quantity:     4,
		Reason:       "rebalance",
	})
	require.NoError(t, err)
	assert.Equal(t, 6, resp.From.Quantity)
	assert.Equal(t, 5, resp.To.Quantity)
	assert.Equal(t, 6, f.inventories.quantity(src.ID))
	assert.Equal(t, 5, f.inventories.quantity(dst.ID))

	// one movement per leg, cross-referencing each other's record
	outs := f.movements.byType("transfer_out")
	ins := f.movements.byType("transfer_in")
	require.Len(t, outs, 1)
	require.Len(t, ins, 1)
	assert.Equal(t, -4, outs[0].Quantity)
	assert.Equal(t, 4, ins[0].Quantity)
	assert.Equal(t, dst.ID, *outs[0].ReferenceID)
	assert.Equal(t, src.ID, *ins[0].ReferenceID)
}

func TestTransfer_CreatesMissingDestination(t *testing.T) {
	f := newInventoryFixture()
	productID, fromOutlet, toOutlet := uuid.New(), uuid.New(), uuid.New()
	f.seed(productID, fromOutlet, 8)

	resp, err := f.svc.Transfer(context.Background(), dto.TransferStockRequest{
		ProductID:    productID.String(),
		FromOutletID: fromOutlet.String(),
		ToOutletID:   toOutlet.String(),
		Quantity:     3,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.From.Quantity)
	assert.Equal(t, 3, resp.To.Quantity)

	created, err := f.svc.GetStock(context.Background(), productID, toOutlet)
	require.NoError(t, err)
	assert.Equal(t, 3, created.Quantity)
}

func TestTransfer_InsufficientSource(t *testing.T) {
	f := newInventoryFixture()
	productID, fromOutlet, toOutlet := uuid.New(), uuid.New(), uuid.New()
	src := f.seed(productID, fromOutlet, 2)

	_, err := f.svc.Transfer(context.Background(), dto.TransferStockRequest{
		ProductID:    productID.String(),
		FromOutletID: fromOutlet.String(),
		ToOutletID:   toOutlet.String(),
		Quantity:     5,
	})
	assert.Equal(t, apierror.CodeInsufficientStock, apierror.CodeOf(err))
	assert.Equal(t, 2, f.inventories.quantity(src.ID))
}

func TestTransfer_SameOutletRejected(t *testing.T) {
	f := newInventoryFixture()
	productID, outletID := uuid.New(), uuid.New()
	f.seed(productID, outletID, 5)

	_, err := f.svc.Transfer(context.Background(), dto.TransferStockRequest{
		ProductID:    productID.String(),
		FromOutletID: outletID.String(),
		ToOutletID:   outletID.String(),
		Quantity:     1,
	})
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestTransfer_MissingSource(t *testing.T) {
	f := newInventoryFixture()
	_, err := f.svc.Transfer(context.Background(), dto.TransferStockRequest{
		ProductID:    uuid.New().String(),
		FromOutletID: uuid.New().String(),
		ToOutletID:   uuid.New().String(),
		Quantity:     1,
	})
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}
