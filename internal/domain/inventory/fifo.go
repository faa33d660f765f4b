package inventory

import (
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Deduction descuento planificado sobre un lote.
type Deduction struct {
	Batch       *entity.InventoryBatch
	Quantity    decimal.Decimal // cantidad a descontar
	NewQuantity decimal.Decimal // cantidad que queda en el lote
	NewStatus   string
}

// SortFIFO ordena por vencimiento ascendente; desempate por fecha de recepción y número de lote.
func SortFIFO(batches []*entity.InventoryBatch) {
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		if !a.ExpiryDate.Equal(b.ExpiryDate) {
			return a.ExpiryDate.Before(b.ExpiryDate)
		}
		if !a.ReceivedDate.Equal(b.ReceivedDate) {
			return a.ReceivedDate.Before(b.ReceivedDate)
		}
		return a.BatchNumber < b.BatchNumber
	})
}

// PlanDeduction recorre los lotes activos en orden FIFO por vencimiento y reparte quantity.
// Si el total activo no alcanza devuelve InsufficientStockError sin planificar nada.
// No modifica los lotes recibidos.
func PlanDeduction(productName string, batches []*entity.InventoryBatch, quantity decimal.Decimal) ([]Deduction, error) {
	active := make([]*entity.InventoryBatch, 0, len(batches))
	for _, b := range batches {
		if b.IsActive() && b.Quantity.GreaterThan(decimal.Zero) {
			active = append(active, b)
		}
	}
	available := TotalQuantity(active)
	if available.LessThan(quantity) {
		return nil, &domain.InsufficientStockError{
			ProductName: productName,
			Available:   available,
			Requested:   quantity,
		}
	}
	SortFIFO(active)

	remaining := quantity
	plan := make([]Deduction, 0, len(active))
	for _, b := range active {
		if !remaining.GreaterThan(decimal.Zero) {
			break
		}
		take := decimal.Min(remaining, b.Quantity)
		left := b.Quantity.Sub(take)
		status := entity.BatchStatusActive
		if left.IsZero() {
			status = entity.BatchStatusDepleted
		}
		plan = append(plan, Deduction{Batch: b, Quantity: take, NewQuantity: left, NewStatus: status})
		remaining = remaining.Sub(take)
	}
	return plan, nil
}
