package inventory

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Variance diferencia con signo entre lo recibido y lo pedido.
func Variance(ordered, received decimal.Decimal) decimal.Decimal {
	return received.Sub(ordered)
}

// VariancePercentage varianza / pedido × 100, redondeada a 2 decimales; 0 si no se pidió nada.
func VariancePercentage(ordered, received decimal.Decimal) decimal.Decimal {
	if !ordered.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	return Variance(ordered, received).Div(ordered).Mul(hundred).Round(2)
}

// BaseUnitCost costo por unidad base: unitPrice / factor cuando la UOM de compra no es la base
// (₱140 por caja de 12 ⇒ ₱11.67 por pieza).
func BaseUnitCost(product *entity.Product, uom string, unitPrice decimal.Decimal) (decimal.Decimal, error) {
	if IsBaseUOM(product, uom) {
		return unitPrice, nil
	}
	factor, err := ConversionFactor(product, uom)
	if err != nil {
		return decimal.Zero, err
	}
	return unitPrice.Div(factor), nil
}

// ReceivingStatusOf estado de recepción a partir de las líneas de la orden.
func ReceivingStatusOf(items []*entity.PurchaseOrderItem) string {
	if len(items) == 0 {
		return entity.ReceivingStatusPending
	}
	full, partial := true, false
	for _, it := range items {
		if it.ReceivedQuantity.LessThan(it.Quantity) {
			full = false
		}
		if it.ReceivedQuantity.GreaterThan(decimal.Zero) {
			partial = true
		}
	}
	switch {
	case full:
		return entity.ReceivingStatusFullyReceived
	case partial:
		return entity.ReceivingStatusPartiallyReceived
	default:
		return entity.ReceivingStatusPending
	}
}

var netTermsPattern = regexp.MustCompile(`^net\s*(\d+)$`)

// CalculateDueDate fecha de vencimiento según términos de pago del proveedor.
// Net 15/30/60 suman esos días, COD vence en from; cualquier otro término se trata como Net 30.
func CalculateDueDate(terms string, from time.Time) time.Time {
	t := strings.ToLower(strings.TrimSpace(terms))
	if t == "cod" {
		return from
	}
	if m := netTermsPattern.FindStringSubmatch(t); m != nil {
		if days, err := strconv.Atoi(m[1]); err == nil {
			switch days {
			case 15, 30, 60:
				return from.AddDate(0, 0, days)
			}
		}
	}
	return from.AddDate(0, 0, 30)
}
