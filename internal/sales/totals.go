package sales

import (
	"github.com/shopspring/decimal"

	"salesadmin/internal/models"
)

// ComputeTotals derives the stored sale totals from its line items: total
// value is the sum of quantity times unit price, total items the sum of
// quantities. Totals are computed whenever the line items change and
// persisted; reads never re-derive them.
func ComputeTotals(details []models.SaleDetail) (decimal.Decimal, int) {
	total := decimal.Zero
	items := 0
	for _, d := range details {
		total = total.Add(d.UnitPrice.Mul(decimal.NewFromInt(int64(d.Quantity))))
		items += d.Quantity
	}
	return total, items
}
