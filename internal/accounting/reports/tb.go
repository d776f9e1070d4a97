// Package reports builds trial balance and balance sheet view models from
// an already-validated chart of accounts and posted leaf balances. Builders
// are pure; they never fail on unbalanced data, they flag it.
package reports

import (
	"time"

	"github.com/meridian-erp/meridian-erp/internal/accounting/accounts"
	"github.com/meridian-erp/meridian-erp/internal/money"
)

// TrialBalanceStatus marks whether total debits equal total credits.
type TrialBalanceStatus string

const (
	StatusBalanced   TrialBalanceStatus = "BALANCED"
	StatusUnbalanced TrialBalanceStatus = "UNBALANCED"
)

// TrialBalanceRow is one account line with its rolled-up balance placed on
// the natural side.
type TrialBalanceRow struct {
	AccountID int64                `json:"account_id"`
	Code      string               `json:"code"`
	Name      string               `json:"name"`
	Type      accounts.AccountType `json:"type"`
	Depth     int                  `json:"depth"`
	Debit     money.Money          `json:"debit"`
	Credit    money.Money          `json:"credit"`
}

// TrialBalanceReport is the full trial balance as of a date.
type TrialBalanceReport struct {
	AsOf        time.Time          `json:"as_of"`
	Rows        []TrialBalanceRow  `json:"rows"`
	TotalDebit  money.Money        `json:"total_debit"`
	TotalCredit money.Money        `json:"total_credit"`
	Status      TrialBalanceStatus `json:"status"`
}

// BuildTrialBalance renders every account with its rolled-up balance in the
// debit or credit column according to the account type's natural side.
//
// Row balances include descendant rollups, so column totals are computed
// from root accounts only; the forest partitions leaves, which counts every
// posted balance exactly once.
func BuildTrialBalance(asOf time.Time, tree *accounts.Tree, balances map[int64]money.Money) TrialBalanceReport {
	report := TrialBalanceReport{AsOf: asOf}

	depths := make(map[int64]int)
	tree.Walk(func(n *accounts.Node) {
		depth := 0
		if n.ParentID != nil {
			depth = depths[*n.ParentID] + 1
		}
		depths[n.ID] = depth

		rolled := rollupOf(tree, n.ID, balances)
		row := TrialBalanceRow{
			AccountID: n.ID,
			Code:      n.Code,
			Name:      n.Name,
			Type:      n.Type,
			Depth:     depth,
		}
		if n.Type.NormalSide() == accounts.DebitNormal {
			row.Debit = rolled
		} else {
			row.Credit = rolled
		}
		report.Rows = append(report.Rows, row)

		if depth == 0 {
			report.TotalDebit = report.TotalDebit.Add(row.Debit)
			report.TotalCredit = report.TotalCredit.Add(row.Credit)
		}
	})

	report.Status = StatusUnbalanced
	diff := report.TotalDebit.Sub(report.TotalCredit).Abs()
	if diff.LessThan(money.MinorUnit()) {
		report.Status = StatusBalanced
	}
	return report
}

func rollupOf(tree *accounts.Tree, id int64, balances map[int64]money.Money) money.Money {
	rolled, err := tree.RollupBalance(id, balances)
	if err != nil {
		// Walk only yields ids present in the tree.
		return money.Zero()
	}
	return rolled
}
