package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// CostEngine reúne los dos cálculos de costo del ledger.
// PerWarehouseAverage siempre se recalcula desde los lotes activos; ProductRunningAverage es
// el único que escribe Product.AverageCostPrice y solo lo invoca la recepción.
type CostEngine struct{}

// NewCostEngine construye el motor de costos.
func NewCostEngine() *CostEngine { return &CostEngine{} }

// PerWarehouseAverage costo promedio ponderado de (producto, bodega); 0 sin stock activo.
func (e *CostEngine) PerWarehouseAverage(ctx context.Context, repos TxRepos, productID, warehouseID string) (decimal.Decimal, error) {
	batches, err := repos.Batches.ListActive(ctx, productID, warehouseID)
	if err != nil {
		return decimal.Zero, err
	}
	return inventory.WeightedAverage(batches), nil
}

// ProductRunningAverage actualiza el promedio del producto en todas las bodegas con una entrada
// de newQty unidades base a newCost. oldQty es el stock activo antes de la entrada.
func (e *CostEngine) ProductRunningAverage(
	ctx context.Context,
	repos TxRepos,
	product *entity.Product,
	oldQty, newCost, newQty decimal.Decimal,
) (decimal.Decimal, error) {
	avg := inventory.RunningAverage(product.AverageCostPrice, oldQty, newCost, newQty)
	if err := repos.Products.UpdateAverageCost(ctx, product.ID, avg); err != nil {
		return decimal.Zero, err
	}
	product.AverageCostPrice = avg
	return avg, nil
}
