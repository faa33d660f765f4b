package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// sequenceColumn tabla y columna que guardan los números de cada prefijo.
var sequenceColumn = map[string][2]string{
	inventory.PrefixBatch:            {batchesTable, "batch_number"},
	inventory.PrefixReceivingVoucher: {vouchersTable, "rv_number"},
	inventory.PrefixPurchaseOrder:    {purchaseOrdersTable, "po_number"},
}

// SequenceRepo candados y lectura del último consecutivo.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Debe usarse con una tx: el candado vive lo que ella.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Lock pg_advisory_xact_lock sobre el hash de la clave; se libera en Commit/Rollback.
func (r *SequenceRepo) Lock(ctx context.Context, key string) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("advisory lock %s: %w", key, err)
	}
	return nil
}

// LastNumber mayor número con el alcance dado. Ordena primero por longitud para que
// ...-10000 quede por encima de ...-9999.
func (r *SequenceRepo) LastNumber(ctx context.Context, prefix, scope string) (string, error) {
	sql, args, err := lastNumberQuery(prefix, scope)
	if err != nil {
		return "", err
	}
	var last string
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&last); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last number %s: %w", prefix, err)
	}
	return last, nil
}

func lastNumberQuery(prefix, scope string) (string, []any, error) {
	target, ok := sequenceColumn[prefix]
	if !ok {
		return "", nil, fmt.Errorf("prefijo de consecutivo sin tabla: %s", prefix)
	}
	table, col := target[0], target[1]
	return psql.Select(col).From(table).
		Where(squirrel.Like{col: scope + "%"}).
		OrderBy("length("+col+") DESC", col+" DESC").
		Limit(1).
		ToSql()
}
