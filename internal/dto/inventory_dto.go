package dto

// AdjustStockRequest applies a signed delta to one (product, outlet) record.
// MinStock/MaxStock, when present, update the thresholds in the same call.
type AdjustStockRequest struct {
	ProductID      string `json:"product_id" validate:"required,uuid"`
	OutletID       string `json:"outlet_id"  validate:"required,uuid"`
	QuantityChange int    `json:"quantity_change"`
	Reason         string `json:"reason"`
	MinStock       *int   `json:"min_stock" validate:"omitempty,min=0"`
	MaxStock       *int   `json:"max_stock" validate:"omitempty,min=0"`
}

// TransferStockRequest moves quantity between two outlets of the same product.
type TransferStockRequest struct {
	ProductID    string `json:"product_id"     validate:"required,uuid"`
	FromOutletID string `json:"from_outlet_id" validate:"required,uuid"`
	ToOutletID   string `json:"to_outlet_id"   validate:"required,uuid,nefield=FromOutletID"`
	Quantity     int    `json:"quantity"       validate:"required,min=1"`
	Reason       string `json:"reason"`
}

type InventoryResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	OutletID    string `json:"outlet_id"`
	Quantity    int    `json:"quantity"`
	MinStock    *int   `json:"min_stock,omitempty"`
	MaxStock    *int   `json:"max_stock,omitempty"`
	LastUpdated string `json:"last_updated"`
}

type TransferResponse struct {
	From InventoryResponse `json:"from"`
	To   InventoryResponse `json:"to"`
}
