package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo lectura del catálogo sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productSelect = `
		SELECT id, name, base_uom, base_price, shelf_life_days, alternate_uoms, average_cost_price
		FROM products WHERE id = $1`

// GetByID obtiene un producto por ID con sus unidades alternas (columna JSONB).
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, productSelect, id)
}

// GetByIDForUpdate bloquea la fila del producto: serializa las actualizaciones del costo promedio.
func (r *ProductRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, productSelect+" FOR UPDATE", id)
}

func (r *ProductRepo) get(ctx context.Context, query, id string) (*entity.Product, error) {
	var (
		p   entity.Product
		raw []byte
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.BaseUOM, &p.BasePrice, &p.ShelfLifeDays, &raw, &p.AverageCostPrice,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p.AlternateUOMs); err != nil {
			return nil, fmt.Errorf("decode alternate_uoms de %s: %w", id, err)
		}
	}
	return &p, nil
}

// UpdateAverageCost actualiza el costo promedio cacheado del producto.
func (r *ProductRepo) UpdateAverageCost(ctx context.Context, productID string, cost decimal.Decimal) error {
	query := `UPDATE products SET average_cost_price = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, productID, cost)
	if err != nil {
		return fmt.Errorf("update product average cost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("producto", productID)
	}
	return nil
}
