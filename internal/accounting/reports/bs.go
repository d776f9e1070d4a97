package reports

import (
	"time"

	"github.com/meridian-erp/meridian-erp/internal/accounting/accounts"
	"github.com/meridian-erp/meridian-erp/internal/money"
)

// BalanceSheetRow summarises one account inside a section.
type BalanceSheetRow struct {
	AccountID int64       `json:"account_id"`
	Code      string      `json:"code"`
	Name      string      `json:"name"`
	Depth     int         `json:"depth"`
	Balance   money.Money `json:"balance"`
}

// BalanceSheetSection contains the accounts and total for one
// classification.
type BalanceSheetSection struct {
	Label string            `json:"label"`
	Rows  []BalanceSheetRow `json:"rows"`
	Total money.Money       `json:"total"`
}

// BalanceSheetReport asserts Assets = Liabilities + Equity at a point in
// time. An unbalanced ledger still renders; Imbalance carries the
// difference so callers can surface a data-integrity warning.
type BalanceSheetReport struct {
	AsOf                      time.Time           `json:"as_of"`
	Assets                    BalanceSheetSection `json:"assets"`
	Liabilities               BalanceSheetSection `json:"liabilities"`
	Equity                    BalanceSheetSection `json:"equity"`
	TotalLiabilitiesAndEquity money.Money         `json:"total_liabilities_and_equity"`
	Imbalance                 money.Money         `json:"imbalance"`
}

// Balanced reports whether the accounting equation holds within the
// smallest currency unit.
func (r BalanceSheetReport) Balanced() bool {
	return r.Imbalance.Abs().LessThan(money.MinorUnit())
}

// BuildBalanceSheet partitions the chart into assets, liabilities, and
// equity with rolled-up balances. Income and expense accounts are excluded;
// the upstream posting system closes them into equity.
func BuildBalanceSheet(asOf time.Time, tree *accounts.Tree, balances map[int64]money.Money) BalanceSheetReport {
	report := BalanceSheetReport{
		AsOf:        asOf,
		Assets:      BalanceSheetSection{Label: "Assets"},
		Liabilities: BalanceSheetSection{Label: "Liabilities"},
		Equity:      BalanceSheetSection{Label: "Equity"},
	}

	depths := make(map[int64]int)
	tree.Walk(func(n *accounts.Node) {
		depth := 0
		if n.ParentID != nil {
			depth = depths[*n.ParentID] + 1
		}
		depths[n.ID] = depth

		var section *BalanceSheetSection
		switch n.Type {
		case accounts.TypeAsset:
			section = &report.Assets
		case accounts.TypeLiability:
			section = &report.Liabilities
		case accounts.TypeEquity:
			section = &report.Equity
		default:
			return
		}

		row := BalanceSheetRow{
			AccountID: n.ID,
			Code:      n.Code,
			Name:      n.Name,
			Depth:     depth,
			Balance:   rollupOf(tree, n.ID, balances),
		}
		section.Rows = append(section.Rows, row)
		if depth == 0 {
			section.Total = section.Total.Add(row.Balance)
		}
	})

	report.TotalLiabilitiesAndEquity = report.Liabilities.Total.Add(report.Equity.Total)
	report.Imbalance = report.Assets.Total.Sub(report.TotalLiabilitiesAndEquity)
	return report
}
