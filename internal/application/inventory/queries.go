package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CalculateWeightedAverageCost costo promedio ponderado de (producto, bodega), recalculado en cada llamada.
func (s *Service) CalculateWeightedAverageCost(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error) {
	if err := requireIDs("product_id", productID, "warehouse_id", warehouseID); err != nil {
		return decimal.Zero, err
	}
	avg := decimal.Zero
	err := s.txRunner.Read(ctx, func(repos TxRepos) error {
		var err error
		avg, err = s.cost.PerWarehouseAverage(ctx, repos, productID, warehouseID)
		return err
	})
	return avg, err
}

// GetCurrentStockLevel Σ cantidad de lotes activos de (producto, bodega) en unidad base.
func (s *Service) GetCurrentStockLevel(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error) {
	if err := requireIDs("product_id", productID, "warehouse_id", warehouseID); err != nil {
		return decimal.Zero, err
	}
	level := decimal.Zero
	err := s.txRunner.Read(ctx, func(repos TxRepos) error {
		var err error
		level, err = repos.Batches.SumActiveQuantity(ctx, productID, warehouseID)
		return err
	})
	return level, err
}

// GetBatchByID lote con su producto y movimientos.
func (s *Service) GetBatchByID(ctx context.Context, id string) (*entity.BatchWithRelations, error) {
	if err := requireIDs("batch_id", id); err != nil {
		return nil, err
	}
	var result *entity.BatchWithRelations
	err := s.txRunner.Read(ctx, func(repos TxRepos) error {
		batch, err := repos.Batches.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if batch == nil {
			return domain.NewNotFoundError("lote", id)
		}
		product, err := repos.Products.GetByID(ctx, batch.ProductID)
		if err != nil {
			return err
		}
		movements, err := repos.Movements.ListByBatch(ctx, batch.ID)
		if err != nil {
			return err
		}
		result = &entity.BatchWithRelations{InventoryBatch: *batch, Product: product, Movements: movements}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListMovements movimientos según filtro, más recientes primero.
func (s *Service) ListMovements(ctx context.Context, filter entity.MovementFilter) ([]*entity.StockMovement, error) {
	page := dto.PageRequest{Limit: filter.Limit, Offset: filter.Offset}
	page.DefaultPage()
	filter.Limit, filter.Offset = page.Limit, page.Offset
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.NewValidationError("to", "el fin del rango es anterior al inicio")
	}

	var movements []*entity.StockMovement
	err := s.txRunner.Read(ctx, func(repos TxRepos) error {
		var err error
		movements, err = repos.Movements.List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	if movements == nil {
		movements = []*entity.StockMovement{}
	}
	return movements, nil
}

// MarkExpiredBatches pasa a expired los lotes activos vencidos. No toca cantidades; idempotente.
func (s *Service) MarkExpiredBatches(ctx context.Context) (int64, error) {
	var n int64
	err := s.txRunner.Run(ctx, func(repos TxRepos) error {
		var err error
		n, err = repos.Batches.MarkExpired(ctx, s.now())
		return err
	})
	if err != nil {
		return 0, err
	}
	s.metrics.BatchesExpired(n)
	if n > 0 {
		s.log.Info().Int64("batches", n).Msg("lotes vencidos marcados")
	}
	return n, nil
}
