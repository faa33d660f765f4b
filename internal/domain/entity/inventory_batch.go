package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lote.
const (
	BatchStatusActive   = "active"
	BatchStatusDepleted = "depleted" // quantity == 0
	BatchStatusExpired  = "expired"  // lo aplica el barrido periódico, nunca una lectura
)

// InventoryBatch cantidad física de un producto recibida en una bodega, con costo propio.
// Quantity y UnitCost están en la unidad base del producto. Los lotes nunca se borran.
type InventoryBatch struct {
	ID              string          `db:"id"`
	ProductID       string          `db:"product_id"`
	WarehouseID     string          `db:"warehouse_id"`
	BatchNumber     string          `db:"batch_number"`
	InitialQuantity decimal.Decimal `db:"initial_quantity"`
	Quantity        decimal.Decimal `db:"quantity"`
	UnitCost        decimal.Decimal `db:"unit_cost"`
	ReceivedDate    time.Time       `db:"received_date"`
	ExpiryDate      time.Time       `db:"expiry_date"`
	Status          string          `db:"status"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// IsActive indica si el lote participa en stock y costo.
func (b *InventoryBatch) IsActive() bool {
	return b.Status == BatchStatusActive
}

// BatchWithRelations lote con su producto y sus movimientos (más antiguo primero).
type BatchWithRelations struct {
	InventoryBatch
	Product   *Product
	Movements []*StockMovement
}
