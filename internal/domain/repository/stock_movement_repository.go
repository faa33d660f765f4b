package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// StockMovementRepository puerto del ledger de movimientos. Solo agrega; nunca actualiza ni borra.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// ListByBatch movimientos del lote, el más antiguo primero.
	ListByBatch(ctx context.Context, batchID string) ([]*entity.StockMovement, error)
	List(ctx context.Context, filter entity.MovementFilter) ([]*entity.StockMovement, error)
}
