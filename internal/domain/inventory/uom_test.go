package inventory_test

import (
	"errors"
	"testing"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBase_UnidadBaseSinCambio(t *testing.T) {
	got, err := inventory.ConvertToBase(piecesProduct(), dec("7"), "PIECE")
	require.NoError(t, err)
	assert.Equal(t, "7", got.String())
}

// TestConvertToBase_IgnoraMayusculas box, BOX y Box deben dar lo mismo: 5 × 12.
func TestConvertToBase_IgnoraMayusculas(t *testing.T) {
	p := piecesProduct()
	for _, uom := range []string{"box", "BOX", "Box"} {
		got, err := inventory.ConvertToBase(p, dec("5"), uom)
		require.NoError(t, err, uom)
		assert.Equal(t, "60", got.String(), uom)
	}
}

func TestConvertToBase_FactorFraccionario(t *testing.T) {
	p := &entity.Product{
		Name:    "Arroz",
		BaseUOM: "KILOGRAM",
		AlternateUOMs: []entity.AlternateUOM{
			{Name: "GRAM", ConversionFactor: dec("0.001")},
		},
	}
	got, err := inventory.ConvertToBase(p, dec("250"), "gram")
	require.NoError(t, err)
	assert.Equal(t, "0.25", got.String())
}

func TestConvertToBase_UOMInvalida(t *testing.T) {
	_, err := inventory.ConvertToBase(piecesProduct(), dec("1"), "PALLET")
	require.Error(t, err)

	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "uom", vErr.Field)
	assert.Contains(t, vErr.Message, "PALLET")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUOMSellingPrice(t *testing.T) {
	p := piecesProduct()
	p.BasePrice = dec("19")

	price, ok := p.UOMSellingPrice("Box")
	require.True(t, ok)
	assert.Equal(t, "220", price.String())

	price, ok = p.UOMSellingPrice("piece")
	require.True(t, ok)
	assert.Equal(t, "19", price.String())

	_, ok = p.UOMSellingPrice("pallet")
	assert.False(t, ok)
}

func TestRoundStored(t *testing.T) {
	assert.Equal(t, "0.000002", inventory.RoundStored(dec("0.0000016")).String())
	assert.True(t, inventory.RoundStored(dec("0.0000004")).IsZero())
	assert.Equal(t, "4.166667", inventory.RoundStored(dec("50").Div(dec("12"))).String())
}
