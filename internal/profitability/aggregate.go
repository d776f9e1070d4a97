package profitability

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/meridian-erp/meridian-erp/internal/money"
)

// marginOf computes profit/revenue, returning zero when revenue is zero so
// the ratio is always defined.
func marginOf(profit, revenue money.Money) decimal.Decimal {
	if revenue.IsZero() {
		return decimal.Zero
	}
	return profit.Decimal().Div(revenue.Decimal())
}

// Aggregate groups sales lines by product, summing quantity, revenue, and
// cost, and computes margins per record and for the whole period. Records
// come back in descending-profit order for top-performer consumers; ties
// fall back to product name then id so the order is deterministic.
func Aggregate(lines []SalesLine, period DateRange) Report {
	byProduct := make(map[int64]*Record)
	order := make([]int64, 0)
	summary := Summary{}

	for _, line := range lines {
		if !period.Contains(line.SoldAt) {
			continue
		}
		rec, ok := byProduct[line.ProductID]
		if !ok {
			rec = &Record{ProductID: line.ProductID, ProductName: line.ProductName}
			byProduct[line.ProductID] = rec
			order = append(order, line.ProductID)
		}
		rec.Quantity = rec.Quantity.Add(line.Quantity)
		rec.Revenue = rec.Revenue.Add(line.Revenue())
		rec.Cost = rec.Cost.Add(line.Cost())

		summary.TotalQuantity = summary.TotalQuantity.Add(line.Quantity)
		summary.TotalRevenue = summary.TotalRevenue.Add(line.Revenue())
		summary.TotalCost = summary.TotalCost.Add(line.Cost())
	}

	records := make([]Record, 0, len(order))
	for _, id := range order {
		rec := byProduct[id]
		rec.Profit = rec.Revenue.Sub(rec.Cost)
		rec.Margin = marginOf(rec.Profit, rec.Revenue)
		records = append(records, *rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if cmp := records[i].Profit.Cmp(records[j].Profit); cmp != 0 {
			return cmp > 0
		}
		if records[i].ProductName != records[j].ProductName {
			return records[i].ProductName < records[j].ProductName
		}
		return records[i].ProductID < records[j].ProductID
	})

	summary.TotalProfit = summary.TotalRevenue.Sub(summary.TotalCost)
	summary.Margin = marginOf(summary.TotalProfit, summary.TotalRevenue)

	return Report{Period: period, Records: records, Summary: summary}
}
