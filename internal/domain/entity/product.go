package entity

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// AlternateUOM unidad alterna de un producto.
// ConversionFactor = unidades base por 1 unidad de esta UOM (BOX=12 ⇒ 1 caja = 12 piezas).
type AlternateUOM struct {
	Name             string          `json:"name"`
	ConversionFactor decimal.Decimal `json:"conversionFactor"`
	SellingPrice     decimal.Decimal `json:"sellingPrice"`
}

// Product es dueño del catálogo externo; el ledger solo lo lee,
// salvo AverageCostPrice que actualiza la recepción de órdenes de compra.
type Product struct {
	ID               string
	Name             string
	BaseUOM          string
	BasePrice        decimal.Decimal
	ShelfLifeDays    int
	AlternateUOMs    []AlternateUOM
	AverageCostPrice decimal.Decimal // promedio ponderado entre bodegas (caché)
}

// UOMSellingPrice devuelve el precio de venta para la UOM indicada (comparación sin mayúsculas).
// Lo usan los flujos de venta; el ledger no lo necesita.
func (p *Product) UOMSellingPrice(uom string) (decimal.Decimal, bool) {
	fold := cases.Fold()
	key := fold.String(uom)
	if fold.String(p.BaseUOM) == key {
		return p.BasePrice, true
	}
	for _, alt := range p.AlternateUOMs {
		if fold.String(alt.Name) == key {
			return alt.SellingPrice, true
		}
	}
	return decimal.Zero, false
}
