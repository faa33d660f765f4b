package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ repository.ReceivingVoucherRepository = (*ReceivingVoucherRepo)(nil)
	_ repository.AccountsPayableRepository  = (*AccountsPayableRepo)(nil)
)

const (
	vouchersTable     = "receiving_vouchers"
	voucherItemsTable = "receiving_voucher_items"
	payablesTable     = "accounts_payable"
)

// ReceivingVoucherRepo comprobantes de recepción.
type ReceivingVoucherRepo struct {
	q Querier
}

// NewReceivingVoucherRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceivingVoucherRepository(q Querier) *ReceivingVoucherRepo {
	return &ReceivingVoucherRepo{q: q}
}

// Create inserta cabecera y líneas. Un rv_number repetido es conflicto de consecutivo.
func (r *ReceivingVoucherRepo) Create(ctx context.Context, v *entity.ReceivingVoucher) error {
	sql, args, err := psql.Insert(vouchersTable).Columns(
		"id", "rv_number", "purchase_order_id", "warehouse_id", "supplier_id", "receiver_name",
		"delivery_notes", "total_ordered_amount", "total_received_amount", "received_date", "created_at",
	).Values(
		v.ID, v.RVNumber, v.PurchaseOrderID, v.WarehouseID, v.SupplierID, v.ReceiverName,
		v.DeliveryNotes, v.TotalOrderedAmount, v.TotalReceivedAmount, v.ReceivedDate, v.CreatedAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert voucher: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("comprobante %s: %w", v.RVNumber, domain.ErrSequenceConflict)
		}
		return fmt.Errorf("insert voucher: %w", err)
	}
	if len(v.Items) == 0 {
		return nil
	}

	items := psql.Insert(voucherItemsTable).Columns(
		"id", "receiving_voucher_id", "product_id", "batch_id", "uom", "ordered_quantity",
		"received_quantity", "variance", "variance_percentage", "variance_reason", "unit_price", "total_amount",
	)
	for _, it := range v.Items {
		items = items.Values(
			it.ID, v.ID, it.ProductID, it.BatchID, it.UOM, it.OrderedQuantity,
			it.ReceivedQuantity, it.Variance, it.VariancePercentage, it.VarianceReason, it.UnitPrice, it.TotalAmount,
		)
	}
	sql, args, err = items.ToSql()
	if err != nil {
		return fmt.Errorf("build insert voucher items: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert voucher items: %w", err)
	}
	return nil
}

// AccountsPayableRepo cuentas por pagar.
type AccountsPayableRepo struct {
	q Querier
}

// NewAccountsPayableRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccountsPayableRepository(q Querier) *AccountsPayableRepo {
	return &AccountsPayableRepo{q: q}
}

// Create inserta la cuenta por pagar.
func (r *AccountsPayableRepo) Create(ctx context.Context, ap *entity.AccountsPayable) error {
	query := `
		INSERT INTO accounts_payable (id, supplier_id, purchase_order_id, total_amount, paid_amount, balance, due_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		ap.ID, ap.SupplierID, ap.PurchaseOrderID, ap.TotalAmount, ap.PaidAmount, ap.Balance, ap.DueDate, ap.Status, ap.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert accounts payable: %w", err)
	}
	return nil
}
