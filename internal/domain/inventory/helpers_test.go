package inventory_test

import (
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func batch(number, qty, cost, expiry string) *entity.InventoryBatch {
	return &entity.InventoryBatch{
		ID:           "id-" + number,
		BatchNumber:  number,
		Quantity:     dec(qty),
		UnitCost:     dec(cost),
		ReceivedDate: day("2025-01-01"),
		ExpiryDate:   day(expiry),
		Status:       entity.BatchStatusActive,
	}
}

func piecesProduct() *entity.Product {
	return &entity.Product{
		ID:            "p-1",
		Name:          "Sardinas 155g",
		BaseUOM:       "piece",
		ShelfLifeDays: 365,
		AlternateUOMs: []entity.AlternateUOM{
			{Name: "BOX", ConversionFactor: dec("12"), SellingPrice: dec("220")},
			{Name: "case", ConversionFactor: dec("12"), SellingPrice: dec("210")},
		},
	}
}
