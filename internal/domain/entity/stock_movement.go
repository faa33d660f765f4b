package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento sobre un lote.
const (
	MovementTypeIN         = "IN"         // entrada
	MovementTypeOUT        = "OUT"        // salida
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste
)

// Tipos de referencia hacia el objeto de negocio que originó el movimiento.
const (
	ReferenceTypePurchaseOrder    = "purchase_order"
	ReferenceTypeReceivingVoucher = "receiving_voucher"
	ReferenceTypeSale             = "sale"
	ReferenceTypeTransfer         = "transfer"
	ReferenceTypeAdjustment       = "adjustment"
)

// StockMovement asiento inmutable del ledger sobre un lote. Quantity siempre positiva.
type StockMovement struct {
	ID            string          `db:"id"`
	BatchID       string          `db:"batch_id"`
	Type          string          `db:"type"`
	Quantity      decimal.Decimal `db:"quantity"`
	Reason        string          `db:"reason"`
	ReferenceID   *string         `db:"reference_id"`
	ReferenceType *string         `db:"reference_type"`
	CreatedAt     time.Time       `db:"created_at"`
}

// MovementFilter filtros para listar movimientos. Campos vacíos no filtran.
type MovementFilter struct {
	BatchID     string
	ProductID   string
	WarehouseID string
	Type        string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}
