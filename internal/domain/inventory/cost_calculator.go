package inventory

import (
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// WeightedAverage costo promedio ponderado por (producto, bodega) sobre los lotes activos:
// Σ(cantidad × costo) / Σ(cantidad). Devuelve 0 si no hay cantidad (sin división por cero).
// Ignora lotes no activos para que el resultado sea el mismo venga de donde venga la lista.
func WeightedAverage(batches []*entity.InventoryBatch) decimal.Decimal {
	totalQty := decimal.Zero
	totalValue := decimal.Zero
	for _, b := range batches {
		if !b.IsActive() {
			continue
		}
		totalQty = totalQty.Add(b.Quantity)
		totalValue = totalValue.Add(b.Quantity.Mul(b.UnitCost))
	}
	if totalQty.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return totalValue.Div(totalQty)
}

// RunningAverage promedio incremental a nivel producto (todas las bodegas), usado solo al recibir:
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada).
// Si la suma de cantidades es 0 devuelve el costo de entrada.
func RunningAverage(oldAvg, oldQty, newCost, newQty decimal.Decimal) decimal.Decimal {
	sum := oldQty.Add(newQty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return newCost
	}
	num := oldQty.Mul(oldAvg).Add(newQty.Mul(newCost))
	return num.Div(sum)
}

// TotalQuantity Σ cantidad de los lotes activos.
func TotalQuantity(batches []*entity.InventoryBatch) decimal.Decimal {
	total := decimal.Zero
	for _, b := range batches {
		if b.IsActive() {
			total = total.Add(b.Quantity)
		}
	}
	return total
}
