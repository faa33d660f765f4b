package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// BatchRepository define el puerto de persistencia para lotes (DIP).
// GetByID y los List devuelven nil, nil cuando no hay filas.
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.InventoryBatch) error
	GetByID(ctx context.Context, id string) (*entity.InventoryBatch, error)
	UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal, status string) error
	// ListActiveForUpdate lotes activos en orden FIFO, bloqueados (SELECT FOR UPDATE) hasta el fin de la tx.
	ListActiveForUpdate(ctx context.Context, productID, warehouseID string) ([]*entity.InventoryBatch, error)
	ListActive(ctx context.Context, productID, warehouseID string) ([]*entity.InventoryBatch, error)
	SumActiveQuantity(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error)
	// SumActiveQuantityByProduct stock activo del producto en todas las bodegas.
	SumActiveQuantityByProduct(ctx context.Context, productID string) (decimal.Decimal, error)
	// MarkExpired pasa a expired los lotes activos con expiry_date < asOf; devuelve cuántos cambió.
	MarkExpired(ctx context.Context, asOf time.Time) (int64, error)
}
