package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

const (
	purchaseOrdersTable     = "purchase_orders"
	purchaseOrderItemsTable = "purchase_order_items"
)

// PurchaseOrderRepo órdenes de compra sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// GetByIDForUpdate bloquea la orden (FOR UPDATE OF po) y carga proveedor y líneas.
func (r *PurchaseOrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	query := `
		SELECT po.id, po.po_number, po.supplier_id, po.warehouse_id, po.status, po.receiving_status,
		       po.total_amount, po.expected_date, po.actual_delivery_date, po.created_at, po.updated_at,
		       s.id, s.name, s.payment_terms
		FROM purchase_orders po
		JOIN suppliers s ON s.id = po.supplier_id
		WHERE po.id = $1
		FOR UPDATE OF po`
	var (
		po  entity.PurchaseOrder
		sup entity.Supplier
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&po.ID, &po.PONumber, &po.SupplierID, &po.WarehouseID, &po.Status, &po.ReceivingStatus,
		&po.TotalAmount, &po.ExpectedDate, &po.ActualDeliveryDate, &po.CreatedAt, &po.UpdatedAt,
		&sup.ID, &sup.Name, &sup.PaymentTerms,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	po.Supplier = &sup

	sql, args, err := psql.Select("id", "purchase_order_id", "product_id", "uom", "quantity", "received_quantity", "unit_price").
		From(purchaseOrderItemsTable).
		Where(squirrel.Eq{"purchase_order_id": id}).
		OrderBy("id").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build purchase order items: %w", err)
	}
	if err := pgxscan.Select(ctx, r.q, &po.Items, sql, args...); err != nil {
		return nil, fmt.Errorf("list purchase order items: %w", err)
	}
	return &po, nil
}

// UpdateItemReceived fija el acumulado recibido de la línea.
func (r *PurchaseOrderRepo) UpdateItemReceived(ctx context.Context, itemID string, receivedQuantity decimal.Decimal) error {
	sql, args, err := psql.Update(purchaseOrderItemsTable).
		Set("received_quantity", receivedQuantity).
		Where(squirrel.Eq{"id": itemID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update item: %w", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update purchase order item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("línea de orden de compra", itemID)
	}
	return nil
}

// UpdateReceiving guarda la transición de recepción de la orden.
func (r *PurchaseOrderRepo) UpdateReceiving(ctx context.Context, id, status, receivingStatus string, actualDeliveryDate *time.Time) error {
	sql, args, err := psql.Update(purchaseOrdersTable).
		Set("status", status).
		Set("receiving_status", receivingStatus).
		Set("actual_delivery_date", actualDeliveryDate).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update purchase order: %w", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("orden de compra", id)
	}
	return nil
}
