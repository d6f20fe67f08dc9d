// Package stock derives on-hand quantities from the product list and the stock ledger.
package stock

import (
	"sort"

	"github.com/mamadbah2/mfgconsole/internal/domain/models"
)

// Compute returns one line per distinct product id, sorted by id ascending.
//
// A product with at least one ledger entry gets the signed sum of those entries;
// a product with none keeps its stored stock_qty. A ledger total of zero is still a
// ledger total and is not replaced by stock_qty.
func Compute(products []models.Product, ledger []models.StockLedgerEntry) []models.StockLine {
	totals := make(map[int64]int64)
	for _, entry := range ledger {
		if entry.ProductID == 0 {
			continue
		}
		totals[entry.ProductID] += entry.MovementType.Sign() * entry.Quantity
	}

	sorted := make([]models.Product, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	lines := make([]models.StockLine, 0, len(sorted))
	seen := make(map[int64]struct{}, len(sorted))
	for _, p := range sorted {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}

		qty, ok := totals[p.ID]
		if !ok {
			qty = p.StockQty
		}
		lines = append(lines, models.StockLine{Product: p, Quantity: qty})
	}
	return lines
}
