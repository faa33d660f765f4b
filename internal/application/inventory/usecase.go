package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// batchSpec datos para abrir un lote nuevo. Quantity y UnitCost en unidad base.
type batchSpec struct {
	Product       *entity.Product
	WarehouseID   string
	Quantity      decimal.Decimal
	UnitCost      decimal.Decimal
	ReceivedDate  time.Time
	Reason        string
	ReferenceID   *string
	ReferenceType *string
}

// openBatch crea el lote (active, vencimiento = recepción + vida útil) y su movimiento IN.
// Es el único camino por el que nace un lote: AddStock, destino de traslados y recepción.
func (s *Service) openBatch(ctx context.Context, repos TxRepos, spec batchSpec, now time.Time) (*entity.InventoryBatch, *entity.StockMovement, error) {
	unitCost := inventory.RoundStored(spec.UnitCost)
	if !unitCost.GreaterThan(decimal.Zero) {
		return nil, nil, domain.NewValidationError("unit_cost",
			"el costo unitario en unidad base debe ser mayor que cero (mínimo 0.000001)")
	}
	number, err := s.seq.Next(ctx, repos.Sequences, inventory.PrefixBatch, now)
	if err != nil {
		return nil, nil, err
	}
	batch := &entity.InventoryBatch{
		ID:              uuid.New().String(),
		ProductID:       spec.Product.ID,
		WarehouseID:     spec.WarehouseID,
		BatchNumber:     number,
		InitialQuantity: spec.Quantity,
		Quantity:        spec.Quantity,
		UnitCost:        unitCost,
		ReceivedDate:    spec.ReceivedDate,
		ExpiryDate:      spec.ReceivedDate.AddDate(0, 0, spec.Product.ShelfLifeDays),
		Status:          entity.BatchStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := repos.Batches.Create(ctx, batch); err != nil {
		return nil, nil, err
	}
	mov := &entity.StockMovement{
		ID:            uuid.New().String(),
		BatchID:       batch.ID,
		Type:          entity.MovementTypeIN,
		Quantity:      spec.Quantity,
		Reason:        spec.Reason,
		ReferenceID:   spec.ReferenceID,
		ReferenceType: spec.ReferenceType,
		CreatedAt:     now,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, nil, err
	}
	return batch, mov, nil
}

// loadProduct lee el producto o devuelve NotFoundError.
func loadProduct(ctx context.Context, repos TxRepos, productID string) (*entity.Product, error) {
	product, err := repos.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFoundError("producto", productID)
	}
	return product, nil
}

// lockProduct como loadProduct pero con la fila bloqueada hasta el fin de la tx.
func lockProduct(ctx context.Context, repos TxRepos, productID string) (*entity.Product, error) {
	product, err := repos.Products.GetByIDForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFoundError("producto", productID)
	}
	return product, nil
}

// toBase convierte, redondea a la escala de almacenamiento y exige cantidad positiva en unidad base.
func toBase(product *entity.Product, quantity decimal.Decimal, uom string) (decimal.Decimal, error) {
	base, err := inventory.ConvertToBase(product, quantity, uom)
	if err != nil {
		return decimal.Zero, err
	}
	base = inventory.RoundStored(base)
	if !base.GreaterThan(decimal.Zero) {
		return decimal.Zero, domain.NewValidationError("quantity",
			"la cantidad en unidad base debe ser mayor que cero (mínimo 0.000001)")
	}
	return base, nil
}

func requireIDs(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return domain.NewValidationError(pairs[i], "es obligatorio")
		}
	}
	return nil
}

// AddStock abre un lote nuevo con su movimiento IN y lo devuelve con producto y movimientos.
func (s *Service) AddStock(ctx context.Context, in dto.AddStockRequest) (*entity.BatchWithRelations, error) {
	if err := requireIDs("product_id", in.ProductID, "warehouse_id", in.WarehouseID); err != nil {
		return nil, err
	}
	if !in.UnitCost.GreaterThan(decimal.Zero) {
		return nil, domain.NewValidationError("unit_cost", "el costo unitario debe ser mayor que cero")
	}

	var result *entity.BatchWithRelations
	err := s.txRunner.Run(ctx, func(repos TxRepos) error {
		now := s.now()
		product, err := loadProduct(ctx, repos, in.ProductID)
		if err != nil {
			return err
		}
		qty, err := toBase(product, in.Quantity, in.UOM)
		if err != nil {
			return err
		}
		received := now
		if in.ReceivedDate != nil {
			received = *in.ReceivedDate
		}
		batch, mov, err := s.openBatch(ctx, repos, batchSpec{
			Product:       product,
			WarehouseID:   in.WarehouseID,
			Quantity:      qty,
			UnitCost:      in.UnitCost,
			ReceivedDate:  received,
			Reason:        in.Reason,
			ReferenceID:   in.ReferenceID,
			ReferenceType: in.ReferenceType,
		}, now)
		if err != nil {
			return err
		}
		result = &entity.BatchWithRelations{
			InventoryBatch: *batch,
			Product:        product,
			Movements:      []*entity.StockMovement{mov},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(result.Movements)
	s.log.Info().
		Str("batch_number", result.BatchNumber).
		Str("product_id", result.ProductID).
		Str("warehouse_id", result.WarehouseID).
		Str("quantity", result.Quantity.String()).
		Msg("lote creado")
	return result, nil
}

// DeductStock descuenta en orden FIFO por vencimiento en su propia transacción.
func (s *Service) DeductStock(ctx context.Context, in dto.DeductStockRequest) error {
	var movements []*entity.StockMovement
	err := s.txRunner.Run(ctx, func(repos TxRepos) error {
		var err error
		movements, err = s.DeductStockInTx(ctx, repos, in)
		return err
	})
	if err != nil {
		s.rejected(err, in.ProductID, in.WarehouseID)
		return err
	}
	s.publish(movements)
	s.log.Info().
		Str("product_id", in.ProductID).
		Str("warehouse_id", in.WarehouseID).
		Int("batches", len(movements)).
		Msg("stock descontado")
	return nil
}

// DeductStockInTx misma semántica que DeductStock sobre repositorios de una tx del llamador
// (p.ej. la venta POS que además escribe su recibo). Devuelve un OUT por lote tocado, en orden.
// Las métricas quedan a cargo del llamador porque el commit no ocurre aquí.
func (s *Service) DeductStockInTx(ctx context.Context, repos TxRepos, in dto.DeductStockRequest) ([]*entity.StockMovement, error) {
	if err := requireIDs("product_id", in.ProductID, "warehouse_id", in.WarehouseID); err != nil {
		return nil, err
	}
	product, err := loadProduct(ctx, repos, in.ProductID)
	if err != nil {
		return nil, err
	}
	qty, err := toBase(product, in.Quantity, in.UOM)
	if err != nil {
		return nil, err
	}
	batches, err := repos.Batches.ListActiveForUpdate(ctx, in.ProductID, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	return s.applyDeduction(ctx, repos, product, batches, qty, in.Reason, in.ReferenceID, in.ReferenceType)
}

// applyDeduction planifica sobre lotes ya bloqueados y escribe cantidades y movimientos OUT.
func (s *Service) applyDeduction(
	ctx context.Context,
	repos TxRepos,
	product *entity.Product,
	batches []*entity.InventoryBatch,
	qty decimal.Decimal,
	reason string,
	refID, refType *string,
) ([]*entity.StockMovement, error) {
	plan, err := inventory.PlanDeduction(product.Name, batches, qty)
	if err != nil {
		return nil, err
	}
	now := s.now()
	movements := make([]*entity.StockMovement, 0, len(plan))
	for _, d := range plan {
		if err := repos.Batches.UpdateQuantity(ctx, d.Batch.ID, d.NewQuantity, d.NewStatus); err != nil {
			return nil, err
		}
		mov := &entity.StockMovement{
			ID:            uuid.New().String(),
			BatchID:       d.Batch.ID,
			Type:          entity.MovementTypeOUT,
			Quantity:      d.Quantity,
			Reason:        reason,
			ReferenceID:   refID,
			ReferenceType: refType,
			CreatedAt:     now,
		}
		if err := repos.Movements.Create(ctx, mov); err != nil {
			return nil, err
		}
		movements = append(movements, mov)
	}
	return movements, nil
}

// rejected registra un descuento rechazado por falta de stock.
func (s *Service) rejected(err error, productID, warehouseID string) bool {
	if !errors.Is(err, domain.ErrInsufficientStock) {
		return false
	}
	s.metrics.InsufficientStock()
	s.log.Warn().
		Err(err).
		Str("product_id", productID).
		Str("warehouse_id", warehouseID).
		Msg("descuento rechazado")
	return true
}

// TransferStock descuenta en origen y abre un lote en destino al costo promedio de origen,
// todo en una transacción. Ambos tramos comparten la misma referencia.
func (s *Service) TransferStock(ctx context.Context, in dto.TransferStockRequest) (*dto.TransferStockResult, error) {
	if err := requireIDs(
		"product_id", in.ProductID,
		"source_warehouse_id", in.SourceWarehouseID,
		"destination_warehouse_id", in.DestinationWarehouseID,
	); err != nil {
		return nil, err
	}
	if in.SourceWarehouseID == in.DestinationWarehouseID {
		return nil, domain.NewValidationError("destination_warehouse_id", "origen y destino no pueden ser la misma bodega")
	}
	reason := in.Reason
	if reason == "" {
		reason = fmt.Sprintf("Traslado %s → %s", in.SourceWarehouseID, in.DestinationWarehouseID)
	}

	var (
		result    *dto.TransferStockResult
		movements []*entity.StockMovement
	)
	err := s.txRunner.Run(ctx, func(repos TxRepos) error {
		now := s.now()
		product, err := loadProduct(ctx, repos, in.ProductID)
		if err != nil {
			return err
		}
		qty, err := toBase(product, in.Quantity, in.UOM)
		if err != nil {
			return err
		}
		// Los lotes quedan bloqueados: el costo y el descuento ven el mismo estado.
		batches, err := repos.Batches.ListActiveForUpdate(ctx, in.ProductID, in.SourceWarehouseID)
		if err != nil {
			return err
		}
		avgCost := inventory.WeightedAverage(batches)
		if !avgCost.GreaterThan(decimal.Zero) {
			return domain.NewValidationError("source_warehouse_id", "la bodega de origen no tiene stock con costo para trasladar")
		}

		refID := uuid.New().String()
		refType := entity.ReferenceTypeTransfer
		out, err := s.applyDeduction(ctx, repos, product, batches, qty, reason, &refID, &refType)
		if err != nil {
			return err
		}
		dest, inMov, err := s.openBatch(ctx, repos, batchSpec{
			Product:       product,
			WarehouseID:   in.DestinationWarehouseID,
			Quantity:      qty,
			UnitCost:      avgCost,
			ReceivedDate:  now,
			Reason:        reason,
			ReferenceID:   &refID,
			ReferenceType: &refType,
		}, now)
		if err != nil {
			return err
		}

		sourceIDs := make([]string, 0, len(out))
		for _, m := range out {
			sourceIDs = append(sourceIDs, m.BatchID)
		}
		result = &dto.TransferStockResult{
			ReferenceID:      refID,
			UnitCost:         dest.UnitCost,
			Quantity:         qty,
			SourceBatchIDs:   sourceIDs,
			DestinationBatch: dest.ID,
		}
		movements = append(out, inMov)
		return nil
	})
	if err != nil {
		s.rejected(err, in.ProductID, in.SourceWarehouseID)
		return nil, err
	}

	s.publish(movements)
	s.log.Info().
		Str("reference_id", result.ReferenceID).
		Str("product_id", in.ProductID).
		Str("from", in.SourceWarehouseID).
		Str("to", in.DestinationWarehouseID).
		Str("quantity", result.Quantity.String()).
		Str("unit_cost", result.UnitCost.String()).
		Msg("traslado registrado")
	return result, nil
}
