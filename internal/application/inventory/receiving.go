package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// ReceiveFromPurchaseOrder registra la recepción física de una orden en estado ordered:
// comprobante RV, un lote por línea recibida, acumulado de la orden, costo promedio del producto
// y, si la orden queda completa, la cuenta por pagar por el monto de este comprobante
// (las recepciones parciales previas no se suman). Todo o nada.
func (s *Service) ReceiveFromPurchaseOrder(ctx context.Context, in dto.ReceivePurchaseOrderRequest) (*entity.ReceivingVoucherWithDetails, error) {
	if err := requireIDs("purchase_order_id", in.PurchaseOrderID, "receiver_name", in.ReceiverName); err != nil {
		return nil, err
	}
	for i, it := range in.Items {
		if it.ReceivedQuantity.LessThan(decimal.Zero) {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].received_quantity", i), "no puede ser negativa")
		}
		if it.ReceivedQuantity.GreaterThan(decimal.Zero) && !it.UnitPrice.GreaterThan(decimal.Zero) {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].unit_price", i), "debe ser mayor que cero")
		}
	}

	var (
		result    *entity.ReceivingVoucherWithDetails
		movements []*entity.StockMovement
	)
	err := s.txRunner.Run(ctx, func(repos TxRepos) error {
		now := s.now()
		movements = movements[:0]

		po, err := repos.PurchaseOrders.GetByIDForUpdate(ctx, in.PurchaseOrderID)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.NewNotFoundError("orden de compra", in.PurchaseOrderID)
		}
		if po.Status != entity.POStatusOrdered {
			return domain.NewValidationError("status",
				fmt.Sprintf("la orden %s está en estado %s; solo se reciben órdenes en estado %s", po.PONumber, po.Status, entity.POStatusOrdered))
		}
		if !anyReceived(in.Items) {
			return domain.NewValidationError("items", "ninguna línea tiene cantidad recibida")
		}

		rvNumber, err := s.seq.Next(ctx, repos.Sequences, inventory.PrefixReceivingVoucher, now)
		if err != nil {
			return err
		}
		voucher := &entity.ReceivingVoucher{
			ID:                  uuid.New().String(),
			RVNumber:            rvNumber,
			PurchaseOrderID:     po.ID,
			WarehouseID:         po.WarehouseID,
			SupplierID:          po.SupplierID,
			ReceiverName:        in.ReceiverName,
			DeliveryNotes:       in.DeliveryNotes,
			TotalOrderedAmount:  decimal.Zero,
			TotalReceivedAmount: decimal.Zero,
			ReceivedDate:        now,
			CreatedAt:           now,
		}
		refType := entity.ReferenceTypeReceivingVoucher
		batches := make([]*entity.InventoryBatch, 0, len(in.Items))

		for i, it := range in.Items {
			if !it.ReceivedQuantity.GreaterThan(decimal.Zero) {
				continue
			}
			line := po.ItemByProduct(it.ProductID)
			if line == nil {
				return domain.NewValidationError(fmt.Sprintf("items[%d].product_id", i),
					fmt.Sprintf("el producto %s no pertenece a la orden %s", it.ProductID, po.PONumber))
			}
			uom := it.UOM
			if strings.TrimSpace(uom) == "" {
				uom = line.UOM
			}
			if !inventory.SameUOM(uom, line.UOM) {
				return domain.NewValidationError(fmt.Sprintf("items[%d].uom", i),
					fmt.Sprintf("la UOM %q no coincide con la de la orden (%s)", uom, line.UOM))
			}
			ordered := it.OrderedQuantity
			if ordered.IsZero() {
				ordered = line.Quantity
			}

			// El bloqueo del producto ordena a las recepciones que actualizan su costo promedio.
			product, err := lockProduct(ctx, repos, it.ProductID)
			if err != nil {
				return err
			}
			baseQty, err := toBase(product, it.ReceivedQuantity, uom)
			if err != nil {
				return err
			}
			baseCost, err := inventory.BaseUnitCost(product, uom, it.UnitPrice)
			if err != nil {
				return err
			}

			// Stock de todas las bodegas antes de abrir el lote: base del promedio incremental.
			oldQty, err := repos.Batches.SumActiveQuantityByProduct(ctx, product.ID)
			if err != nil {
				return err
			}
			batch, mov, err := s.openBatch(ctx, repos, batchSpec{
				Product:       product,
				WarehouseID:   po.WarehouseID,
				Quantity:      baseQty,
				UnitCost:      baseCost,
				ReceivedDate:  now,
				Reason:        fmt.Sprintf("Recepción %s (%s)", rvNumber, po.PONumber),
				ReferenceID:   &voucher.ID,
				ReferenceType: &refType,
			}, now)
			if err != nil {
				return err
			}
			if _, err := s.cost.ProductRunningAverage(ctx, repos, product, oldQty, batch.UnitCost, baseQty); err != nil {
				return err
			}

			line.ReceivedQuantity = line.ReceivedQuantity.Add(it.ReceivedQuantity)
			if err := repos.PurchaseOrders.UpdateItemReceived(ctx, line.ID, line.ReceivedQuantity); err != nil {
				return err
			}

			lineTotal := it.ReceivedQuantity.Mul(it.UnitPrice)
			voucher.Items = append(voucher.Items, &entity.ReceivingVoucherItem{
				ID:                 uuid.New().String(),
				ReceivingVoucherID: voucher.ID,
				ProductID:          product.ID,
				BatchID:            batch.ID,
				UOM:                uom,
				OrderedQuantity:    ordered,
				ReceivedQuantity:   it.ReceivedQuantity,
				Variance:           inventory.Variance(ordered, it.ReceivedQuantity),
				VariancePercentage: inventory.VariancePercentage(ordered, it.ReceivedQuantity),
				VarianceReason:     it.VarianceReason,
				UnitPrice:          it.UnitPrice,
				TotalAmount:        lineTotal,
			})
			voucher.TotalOrderedAmount = voucher.TotalOrderedAmount.Add(ordered.Mul(it.UnitPrice))
			voucher.TotalReceivedAmount = voucher.TotalReceivedAmount.Add(lineTotal)
			batches = append(batches, batch)
			movements = append(movements, mov)
		}

		if err := repos.Vouchers.Create(ctx, voucher); err != nil {
			return err
		}

		po.ReceivingStatus = inventory.ReceivingStatusOf(po.Items)
		if po.ReceivingStatus == entity.ReceivingStatusFullyReceived {
			delivered := now
			po.Status = entity.POStatusReceived
			po.ActualDeliveryDate = &delivered
		}
		if err := repos.PurchaseOrders.UpdateReceiving(ctx, po.ID, po.Status, po.ReceivingStatus, po.ActualDeliveryDate); err != nil {
			return err
		}
		po.UpdatedAt = now

		// Solo la recepción que completa la orden abre la cuenta, por el monto de este comprobante.
		var payable *entity.AccountsPayable
		if po.ReceivingStatus == entity.ReceivingStatusFullyReceived && voucher.TotalReceivedAmount.GreaterThan(decimal.Zero) {
			terms := ""
			if po.Supplier != nil {
				terms = po.Supplier.PaymentTerms
			}
			payable = &entity.AccountsPayable{
				ID:              uuid.New().String(),
				SupplierID:      po.SupplierID,
				PurchaseOrderID: po.ID,
				TotalAmount:     voucher.TotalReceivedAmount,
				PaidAmount:      decimal.Zero,
				Balance:         voucher.TotalReceivedAmount,
				DueDate:         inventory.CalculateDueDate(terms, now),
				Status:          entity.AccountsPayableStatusOpen,
				CreatedAt:       now,
			}
			if err := repos.Payables.Create(ctx, payable); err != nil {
				return err
			}
		}

		result = &entity.ReceivingVoucherWithDetails{
			ReceivingVoucher: voucher,
			PurchaseOrder:    po,
			Batches:          batches,
			AccountsPayable:  payable,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(movements)
	ev := s.log.Info().
		Str("rv_number", result.RVNumber).
		Str("purchase_order_id", result.PurchaseOrderID).
		Str("receiving_status", result.PurchaseOrder.ReceivingStatus).
		Int("batches", len(result.Batches)).
		Str("total_received", result.TotalReceivedAmount.String())
	if result.AccountsPayable != nil {
		ev = ev.Str("due_date", result.AccountsPayable.DueDate.Format("2006-01-02"))
	}
	ev.Msg("recepción registrada")
	return result, nil
}

func anyReceived(items []dto.ReceiveItemRequest) bool {
	for _, it := range items {
		if it.ReceivedQuantity.GreaterThan(decimal.Zero) {
			return true
		}
	}
	return false
}
