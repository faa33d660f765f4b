package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchesTable = "inventory_batches"

var batchColumns = []string{
	"id", "product_id", "warehouse_id", "batch_number", "initial_quantity", "quantity",
	"unit_cost", "received_date", "expiry_date", "status", "created_at", "updated_at",
}

// fifoOrder vencimiento ascendente; desempate por recepción y número de lote.
var fifoOrder = []string{"expiry_date", "received_date", "batch_number"}

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// Create inserta el lote. Un batch_number repetido es un conflicto de consecutivo (reintentable).
func (r *BatchRepo) Create(ctx context.Context, b *entity.InventoryBatch) error {
	sql, args, err := psql.Insert(batchesTable).Columns(batchColumns...).Values(
		b.ID, b.ProductID, b.WarehouseID, b.BatchNumber, b.InitialQuantity, b.Quantity,
		b.UnitCost, b.ReceivedDate, b.ExpiryDate, b.Status, b.CreatedAt, b.UpdatedAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert batch: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("lote %s: %w", b.BatchNumber, domain.ErrSequenceConflict)
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID; nil, nil si no existe.
func (r *BatchRepo) GetByID(ctx context.Context, id string) (*entity.InventoryBatch, error) {
	sql, args, err := psql.Select(batchColumns...).From(batchesTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get batch: %w", err)
	}
	var b entity.InventoryBatch
	if err := pgxscan.Get(ctx, r.q, &b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return &b, nil
}

// UpdateQuantity fija cantidad y estado. Los CHECK de la tabla rechazan cantidades negativas
// y estados que no concuerden con la cantidad.
func (r *BatchRepo) UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal, status string) error {
	sql, args, err := psql.Update(batchesTable).
		Set("quantity", quantity).
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update batch: %w", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update batch quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("lote", id)
	}
	return nil
}

func activeBatchesQuery(productID, warehouseID string) squirrel.SelectBuilder {
	return psql.Select(batchColumns...).From(batchesTable).
		Where(squirrel.Eq{
			"product_id":   productID,
			"warehouse_id": warehouseID,
			"status":       entity.BatchStatusActive,
		}).
		OrderBy(fifoOrder...)
}

// ListActiveForUpdate lotes activos en orden FIFO bloqueados hasta el fin de la tx.
func (r *BatchRepo) ListActiveForUpdate(ctx context.Context, productID, warehouseID string) ([]*entity.InventoryBatch, error) {
	return r.selectBatches(ctx, activeBatchesQuery(productID, warehouseID).Suffix("FOR UPDATE"))
}

// ListActive lotes activos en orden FIFO, sin bloqueo.
func (r *BatchRepo) ListActive(ctx context.Context, productID, warehouseID string) ([]*entity.InventoryBatch, error) {
	return r.selectBatches(ctx, activeBatchesQuery(productID, warehouseID))
}

func (r *BatchRepo) selectBatches(ctx context.Context, q squirrel.SelectBuilder) ([]*entity.InventoryBatch, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list batches: %w", err)
	}
	var list []*entity.InventoryBatch
	if err := pgxscan.Select(ctx, r.q, &list, sql, args...); err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return list, nil
}

// SumActiveQuantity stock activo de (producto, bodega).
func (r *BatchRepo) SumActiveQuantity(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error) {
	return r.sum(ctx, squirrel.Eq{
		"product_id":   productID,
		"warehouse_id": warehouseID,
		"status":       entity.BatchStatusActive,
	})
}

// SumActiveQuantityByProduct stock activo del producto en todas las bodegas.
func (r *BatchRepo) SumActiveQuantityByProduct(ctx context.Context, productID string) (decimal.Decimal, error) {
	return r.sum(ctx, squirrel.Eq{"product_id": productID, "status": entity.BatchStatusActive})
}

func (r *BatchRepo) sum(ctx context.Context, where squirrel.Eq) (decimal.Decimal, error) {
	sql, args, err := psql.Select("COALESCE(SUM(quantity), 0)").From(batchesTable).Where(where).ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("build sum batches: %w", err)
	}
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum active quantity: %w", err)
	}
	return total, nil
}

// MarkExpired pasa a expired los lotes activos vencidos antes de asOf. No toca quantity.
func (r *BatchRepo) MarkExpired(ctx context.Context, asOf time.Time) (int64, error) {
	sql, args, err := psql.Update(batchesTable).
		Set("status", entity.BatchStatusExpired).
		Set("updated_at", asOf).
		Where(squirrel.Eq{"status": entity.BatchStatusActive}).
		Where(squirrel.Lt{"expiry_date": asOf}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build mark expired: %w", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("mark expired batches: %w", err)
	}
	return tag.RowsAffected(), nil
}
