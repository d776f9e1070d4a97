// Package profitability aggregates per-line sales and cost data into the
// revenue/cost/profit/margin rollups shared by the top-performer and
// period reports.
package profitability

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridian-erp/meridian-erp/internal/money"
)

// SalesLine is one sold line item enriched with its unit cost.
type SalesLine struct {
	ProductID   int64
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   money.Money
	Discount    money.Money
	UnitCost    money.Money
	SoldAt      time.Time
}

// Revenue is unit_price*quantity - discount. Tax is collected on behalf of
// the authority and never counts as revenue.
func (l SalesLine) Revenue() money.Money {
	return l.UnitPrice.MulQuantity(l.Quantity).Sub(l.Discount)
}

// Cost is unit_cost*quantity.
func (l SalesLine) Cost() money.Money {
	return l.UnitCost.MulQuantity(l.Quantity)
}

// DateRange is the half-open reporting window [From, To).
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether a sale timestamp falls inside the window. A
// zero bound leaves that side open.
func (r DateRange) Contains(at time.Time) bool {
	if !r.From.IsZero() && at.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && !at.Before(r.To) {
		return false
	}
	return true
}

// Record is the per-product rollup.
type Record struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Revenue     money.Money     `json:"revenue"`
	Cost        money.Money     `json:"cost"`
	Profit      money.Money     `json:"profit"`
	Margin      decimal.Decimal `json:"margin"`
}

// Summary is the period-level rollup across all products.
type Summary struct {
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalRevenue  money.Money     `json:"total_revenue"`
	TotalCost     money.Money     `json:"total_cost"`
	TotalProfit   money.Money     `json:"total_profit"`
	Margin        decimal.Decimal `json:"margin"`
}

// Report carries the per-product records in descending-profit order plus
// the period summary.
type Report struct {
	Period  DateRange `json:"period"`
	Records []Record  `json:"records"`
	Summary Summary   `json:"summary"`
}
