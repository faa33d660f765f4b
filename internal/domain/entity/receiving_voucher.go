package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceivingVoucher comprobante de recepción física contra una orden de compra.
type ReceivingVoucher struct {
	ID                  string
	RVNumber            string
	PurchaseOrderID     string
	WarehouseID         string
	SupplierID          string
	ReceiverName        string
	DeliveryNotes       string
	TotalOrderedAmount  decimal.Decimal
	TotalReceivedAmount decimal.Decimal
	ReceivedDate        time.Time
	Items               []*ReceivingVoucherItem
	CreatedAt           time.Time
}

// ReceivingVoucherItem línea recibida, con su varianza (recibido − pedido).
type ReceivingVoucherItem struct {
	ID                 string
	ReceivingVoucherID string
	ProductID          string
	BatchID            string
	UOM                string
	OrderedQuantity    decimal.Decimal
	ReceivedQuantity   decimal.Decimal
	Variance           decimal.Decimal
	VariancePercentage decimal.Decimal
	VarianceReason     string
	UnitPrice          decimal.Decimal
	TotalAmount        decimal.Decimal
}

// ReceivingVoucherWithDetails resultado completo de una recepción.
type ReceivingVoucherWithDetails struct {
	*ReceivingVoucher
	PurchaseOrder   *PurchaseOrder
	Batches         []*InventoryBatch
	AccountsPayable *AccountsPayable // nil salvo en la recepción que completa la orden
}
