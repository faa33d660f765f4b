package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la orden de compra.
const (
	POStatusDraft     = "draft"
	POStatusPending   = "pending"
	POStatusOrdered   = "ordered"
	POStatusReceived  = "received"
	POStatusCancelled = "cancelled"
)

// Estados de recepción de la orden de compra.
const (
	ReceivingStatusPending           = "pending"
	ReceivingStatusPartiallyReceived = "partially_received"
	ReceivingStatusFullyReceived     = "fully_received"
)

// Supplier proveedor (maestro externo); PaymentTerms p.ej. "Net 30", "COD".
type Supplier struct {
	ID           string
	Name         string
	PaymentTerms string
}

// PurchaseOrder orden de compra. WarehouseID es la bodega donde se recibe.
type PurchaseOrder struct {
	ID                 string
	PONumber           string
	SupplierID         string
	WarehouseID        string
	Status             string
	ReceivingStatus    string
	TotalAmount        decimal.Decimal
	ExpectedDate       *time.Time
	ActualDeliveryDate *time.Time
	Supplier           *Supplier
	Items              []*PurchaseOrderItem
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// PurchaseOrderItem línea de la orden; Quantity y ReceivedQuantity en la UOM de compra.
type PurchaseOrderItem struct {
	ID               string          `db:"id"`
	PurchaseOrderID  string          `db:"purchase_order_id"`
	ProductID        string          `db:"product_id"`
	UOM              string          `db:"uom"`
	Quantity         decimal.Decimal `db:"quantity"`
	ReceivedQuantity decimal.Decimal `db:"received_quantity"` // acumulado de todas las recepciones
	UnitPrice        decimal.Decimal `db:"unit_price"`
}

// ItemByProduct devuelve la línea del producto indicado, o nil.
func (po *PurchaseOrder) ItemByProduct(productID string) *PurchaseOrderItem {
	for _, it := range po.Items {
		if it.ProductID == productID {
			return it
		}
	}
	return nil
}
