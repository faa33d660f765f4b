package inventory

import (
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// StorageScale decimales con que se guardan cantidades y costos (NUMERIC(18,6)).
const StorageScale int32 = 6

// RoundStored redondea a la escala de almacenamiento. Lo que se valida en Go debe ser lo
// mismo que se guarda, o los CHECK de la tabla fallan con un error crudo de BD.
func RoundStored(d decimal.Decimal) decimal.Decimal {
	return d.Round(StorageScale)
}

// ConversionFactor unidades base por 1 unidad de uom. La UOM base vale 1.
// La comparación ignora mayúsculas/minúsculas (case folding Unicode).
func ConversionFactor(product *entity.Product, uom string) (decimal.Decimal, error) {
	fold := cases.Fold()
	key := fold.String(uom)
	if key == fold.String(product.BaseUOM) {
		return decimal.NewFromInt(1), nil
	}
	for _, alt := range product.AlternateUOMs {
		if fold.String(alt.Name) == key {
			if !alt.ConversionFactor.GreaterThan(decimal.Zero) {
				return decimal.Zero, domain.NewValidationError("uom",
					fmt.Sprintf("la UOM %q del producto %s tiene factor de conversión inválido", uom, product.Name))
			}
			return alt.ConversionFactor, nil
		}
	}
	return decimal.Zero, domain.NewValidationError("uom",
		fmt.Sprintf("UOM %q inválida para el producto %s (base %s)", uom, product.Name, product.BaseUOM))
}

// ConvertToBase convierte quantity expresada en uom a la unidad base del producto.
func ConvertToBase(product *entity.Product, quantity decimal.Decimal, uom string) (decimal.Decimal, error) {
	factor, err := ConversionFactor(product, uom)
	if err != nil {
		return decimal.Zero, err
	}
	return quantity.Mul(factor), nil
}

// IsBaseUOM indica si uom es la unidad base del producto.
func IsBaseUOM(product *entity.Product, uom string) bool {
	fold := cases.Fold()
	return fold.String(uom) == fold.String(product.BaseUOM)
}

// SameUOM compara dos nombres de UOM sin distinguir mayúsculas.
func SameUOM(a, b string) bool {
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}
