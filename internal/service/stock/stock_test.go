package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/mfgconsole/internal/domain/models"
)

func TestComputeFallsBackToStoredQuantity(t *testing.T) {
	products := []models.Product{{ID: 1, Name: "bolt", StockQty: 40}, {ID: 2, Name: "frame", StockQty: 7}}

	lines := Compute(products, nil)
	require.Len(t, lines, 2)
	assert.Equal(t, int64(40), lines[0].Quantity)
	assert.Equal(t, int64(7), lines[1].Quantity)
}

func TestComputeUsesSignedLedgerSum(t *testing.T) {
	products := []models.Product{{ID: 1, StockQty: 999}, {ID: 2, StockQty: 5}}
	ledger := []models.StockLedgerEntry{
		{ProductID: 1, MovementType: models.MovementIn, Quantity: 10},
		{ProductID: 1, MovementType: models.MovementOut, Quantity: 3},
		{ProductID: 1, MovementType: models.MovementIn, Quantity: 1},
	}

	lines := Compute(products, ledger)
	require.Len(t, lines, 2)
	assert.Equal(t, int64(8), lines[0].Quantity)
	assert.Equal(t, int64(5), lines[1].Quantity, "product without ledger rows keeps stock_qty")
}

func TestComputeLedgerZeroIsNotFallback(t *testing.T) {
	products := []models.Product{{ID: 3, StockQty: 12}}
	ledger := []models.StockLedgerEntry{
		{ProductID: 3, MovementType: models.MovementIn, Quantity: 4},
		{ProductID: 3, MovementType: models.MovementOut, Quantity: 4},
	}

	lines := Compute(products, ledger)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(0), lines[0].Quantity)
}

func TestComputeNegativeLedger(t *testing.T) {
	lines := Compute(
		[]models.Product{{ID: 4, StockQty: 100}},
		[]models.StockLedgerEntry{{ProductID: 4, MovementType: models.MovementOut, Quantity: 6}},
	)
	assert.Equal(t, int64(-6), lines[0].Quantity)
}

func TestComputeSortsAndDeduplicates(t *testing.T) {
	products := []models.Product{
		{ID: 9, Name: "z"},
		{ID: 2, Name: "first two"},
		{ID: 5, Name: "five"},
		{ID: 2, Name: "second two"},
	}

	lines := Compute(products, nil)
	require.Len(t, lines, 3)
	assert.Equal(t, []int64{2, 5, 9}, []int64{lines[0].Product.ID, lines[1].Product.ID, lines[2].Product.ID})
	assert.Equal(t, "first two", lines[0].Product.Name)
	assert.Equal(t, int64(9), products[0].ID, "input slice is not reordered")
}

func TestComputeIgnoresEntriesWithoutProduct(t *testing.T) {
	lines := Compute(
		[]models.Product{{ID: 1, StockQty: 3}},
		[]models.StockLedgerEntry{{ProductID: 0, MovementType: models.MovementIn, Quantity: 50}},
	)
	assert.Equal(t, int64(3), lines[0].Quantity)
}

func TestComputeUnknownMovementCountsAsOutbound(t *testing.T) {
	lines := Compute(
		[]models.Product{{ID: 1}},
		[]models.StockLedgerEntry{
			{ProductID: 1, MovementType: models.MovementIn, Quantity: 10},
			{ProductID: 1, MovementType: "adjust", Quantity: 2},
		},
	)
	assert.Equal(t, int64(8), lines[0].Quantity)
}
