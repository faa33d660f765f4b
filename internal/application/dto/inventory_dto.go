package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddStockRequest entrada de AddStock. UnitCost es costo por unidad base.
type AddStockRequest struct {
	ProductID     string          `json:"product_id"`
	WarehouseID   string          `json:"warehouse_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	UOM           string          `json:"uom"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	ReceivedDate  *time.Time      `json:"received_date,omitempty"` // nil = ahora
	Reason        string          `json:"reason"`
	ReferenceID   *string         `json:"reference_id,omitempty"`
	ReferenceType *string         `json:"reference_type,omitempty"`
}

// DeductStockRequest entrada de DeductStock.
type DeductStockRequest struct {
	ProductID     string          `json:"product_id"`
	WarehouseID   string          `json:"warehouse_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	UOM           string          `json:"uom"`
	Reason        string          `json:"reason"`
	ReferenceID   *string         `json:"reference_id,omitempty"`
	ReferenceType *string         `json:"reference_type,omitempty"`
}

// TransferStockRequest traslado entre bodegas.
type TransferStockRequest struct {
	ProductID              string          `json:"product_id"`
	SourceWarehouseID      string          `json:"source_warehouse_id"`
	DestinationWarehouseID string          `json:"destination_warehouse_id"`
	Quantity               decimal.Decimal `json:"quantity"`
	UOM                    string          `json:"uom"`
	Reason                 string          `json:"reason,omitempty"`
}

// TransferStockResult lotes tocados en origen y lote creado en destino.
type TransferStockResult struct {
	ReferenceID      string          `json:"reference_id"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	Quantity         decimal.Decimal `json:"quantity"` // en unidad base
	SourceBatchIDs   []string        `json:"source_batch_ids"`
	DestinationBatch string          `json:"destination_batch_id"`
}

// ReceiveItemRequest línea recibida; cantidades y precio en la UOM de compra.
type ReceiveItemRequest struct {
	ProductID        string          `json:"product_id"`
	UOM              string          `json:"uom"`
	OrderedQuantity  decimal.Decimal `json:"ordered_quantity"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	VarianceReason   string          `json:"variance_reason,omitempty"`
}

// ReceivePurchaseOrderRequest recepción física de una orden de compra.
type ReceivePurchaseOrderRequest struct {
	PurchaseOrderID string               `json:"purchase_order_id"`
	Items           []ReceiveItemRequest `json:"items"`
	ReceiverName    string               `json:"receiver_name"`
	DeliveryNotes   string               `json:"delivery_notes,omitempty"`
}
