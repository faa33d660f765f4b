package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepository lectura del catálogo externo. El único campo que el ledger escribe
// es el costo promedio cacheado, y solo desde la recepción de órdenes de compra.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByIDForUpdate igual que GetByID pero bloquea la fila hasta el fin de la tx.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error)
	UpdateAverageCost(ctx context.Context, productID string, cost decimal.Decimal) error
}
