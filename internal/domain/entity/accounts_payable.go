package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountsPayableStatusOpen cuenta por pagar recién creada, sin abonos.
const AccountsPayableStatusOpen = "open"

// AccountsPayable cuenta por pagar al proveedor, abierta al completar la recepción de una orden.
// TotalAmount y Balance son el monto del comprobante que completa la orden, no el de la orden:
// lo recibido en recepciones parciales anteriores no genera cuenta por pagar aquí y debe
// conciliarse aparte (p.ej. sumando los receiving_vouchers de la orden).
type AccountsPayable struct {
	ID              string
	SupplierID      string
	PurchaseOrderID string
	TotalAmount     decimal.Decimal
	PaidAmount      decimal.Decimal
	Balance         decimal.Decimal
	DueDate         time.Time
	Status          string
	CreatedAt       time.Time
}
