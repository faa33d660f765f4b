package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementsTable = "stock_movements"

var movementColumns = []string{
	"id", "batch_id", "type", "quantity", "reason", "reference_id", "reference_type", "created_at",
}

// StockMovementRepo ledger de movimientos sobre PostgreSQL. Solo INSERT; un trigger impide UPDATE/DELETE.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create agrega un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	sql, args, err := psql.Insert(movementsTable).Columns(movementColumns...).Values(
		m.ID, m.BatchID, m.Type, m.Quantity, m.Reason, m.ReferenceID, m.ReferenceType, m.CreatedAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert movement: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// ListByBatch movimientos del lote en orden de inserción.
func (r *StockMovementRepo) ListByBatch(ctx context.Context, batchID string) ([]*entity.StockMovement, error) {
	sql, args, err := psql.Select(movementColumns...).From(movementsTable).
		Where(squirrel.Eq{"batch_id": batchID}).
		OrderBy("seq").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list movements: %w", err)
	}
	var list []*entity.StockMovement
	if err := pgxscan.Select(ctx, r.q, &list, sql, args...); err != nil {
		return nil, fmt.Errorf("list movements by batch: %w", err)
	}
	return list, nil
}

// List movimientos filtrados, más recientes primero.
func (r *StockMovementRepo) List(ctx context.Context, f entity.MovementFilter) ([]*entity.StockMovement, error) {
	sql, args, err := movementListQuery(f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list movements: %w", err)
	}
	var list []*entity.StockMovement
	if err := pgxscan.Select(ctx, r.q, &list, sql, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return list, nil
}

// movementListQuery arma el SELECT; el join con lotes solo se agrega si se filtra por producto o bodega.
func movementListQuery(f entity.MovementFilter) squirrel.SelectBuilder {
	cols := make([]string, 0, len(movementColumns))
	for _, c := range movementColumns {
		cols = append(cols, "m."+c)
	}
	q := psql.Select(cols...).From(movementsTable + " m")
	if f.ProductID != "" || f.WarehouseID != "" {
		q = q.Join(batchesTable + " b ON b.id = m.batch_id")
		if f.ProductID != "" {
			q = q.Where(squirrel.Eq{"b.product_id": f.ProductID})
		}
		if f.WarehouseID != "" {
			q = q.Where(squirrel.Eq{"b.warehouse_id": f.WarehouseID})
		}
	}
	if f.BatchID != "" {
		q = q.Where(squirrel.Eq{"m.batch_id": f.BatchID})
	}
	if f.Type != "" {
		q = q.Where(squirrel.Eq{"m.type": f.Type})
	}
	if f.From != nil {
		q = q.Where(squirrel.GtOrEq{"m.created_at": *f.From})
	}
	if f.To != nil {
		q = q.Where(squirrel.LtOrEq{"m.created_at": *f.To})
	}
	q = q.OrderBy("m.seq DESC")
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}
	return q
}
