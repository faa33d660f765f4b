package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PurchaseOrderRepository lectura y transición de recepción de órdenes de compra.
type PurchaseOrderRepository interface {
	// GetByIDForUpdate orden con líneas y proveedor, bloqueada para la tx; nil, nil si no existe.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	UpdateItemReceived(ctx context.Context, itemID string, receivedQuantity decimal.Decimal) error
	UpdateReceiving(ctx context.Context, id, status, receivingStatus string, actualDeliveryDate *time.Time) error
}

// ReceivingVoucherRepository persiste el comprobante de recepción con sus líneas.
type ReceivingVoucherRepository interface {
	Create(ctx context.Context, voucher *entity.ReceivingVoucher) error
}

// AccountsPayableRepository cuentas por pagar generadas por la recepción.
type AccountsPayableRepository interface {
	Create(ctx context.Context, ap *entity.AccountsPayable) error
}
