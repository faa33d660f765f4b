package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Batches        repository.BatchRepository
	Movements      repository.StockMovementRepository
	Products       repository.ProductRepository
	Sequences      repository.SequenceRepository
	PurchaseOrders repository.PurchaseOrderRepository
	Vouchers       repository.ReceivingVoucherRepository
	Payables       repository.AccountsPayableRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Run hace Commit si fn devuelve nil y Rollback en cualquier otro caso; puede reintentar fn
// completa ante conflictos de consecutivo o de serialización. Read abre una tx de solo lectura.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
	Read(ctx context.Context, fn func(repos TxRepos) error) error
}

// Metrics recibe los eventos del ledger una vez confirmada la transacción.
type Metrics interface {
	MovementRecorded(movementType string, quantity decimal.Decimal)
	InsufficientStock()
	BatchesExpired(n int64)
}

// NopMetrics no registra nada.
type NopMetrics struct{}

func (NopMetrics) MovementRecorded(string, decimal.Decimal) {}
func (NopMetrics) InsufficientStock()                       {}
func (NopMetrics) BatchesExpired(int64)                     {}
