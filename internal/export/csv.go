// Package export serialises ledger and profitability reports to CSV for
// the presentation layer. Monetary cells stay exact decimal strings; only
// display-oriented ratio columns go through locale-aware formatting.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/meridian-erp/meridian-erp/internal/accounting/reports"
	"github.com/meridian-erp/meridian-erp/internal/profitability"
)

var printer = message.NewPrinter(language.English)

// formatPercent renders a ratio like 0.4 as "40.0%". Ratios are display
// values, not monetary amounts, so float formatting is acceptable here.
func formatPercent(ratio decimal.Decimal) string {
	f, _ := ratio.Mul(decimal.NewFromInt(100)).Float64()
	return printer.Sprintf("%.1f%%", f)
}

// WriteTrialBalanceCSV emits the trial balance with one row per account.
func WriteTrialBalanceCSV(w io.Writer, report reports.TrialBalanceReport) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Code", "Name", "Type", "Debit", "Credit"}); err != nil {
		return err
	}
	for _, row := range report.Rows {
		if err := writer.Write([]string{
			row.Code,
			row.Name,
			string(row.Type),
			row.Debit.StringFixed(),
			row.Credit.StringFixed(),
		}); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{
		"", "Total", string(report.Status),
		report.TotalDebit.StringFixed(),
		report.TotalCredit.StringFixed(),
	}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// WriteBalanceSheetCSV emits the balance sheet sections with totals and
// the imbalance flag.
func WriteBalanceSheetCSV(w io.Writer, report reports.BalanceSheetReport) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Section", "Code", "Name", "Balance"}); err != nil {
		return err
	}
	for _, section := range []reports.BalanceSheetSection{
		report.Assets, report.Liabilities, report.Equity,
	} {
		for _, row := range section.Rows {
			if err := writer.Write([]string{
				section.Label, row.Code, row.Name, row.Balance.StringFixed(),
			}); err != nil {
				return err
			}
		}
		if err := writer.Write([]string{
			section.Label, "", "Total", section.Total.StringFixed(),
		}); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{
		"", "", "Liabilities + Equity", report.TotalLiabilitiesAndEquity.StringFixed(),
	}); err != nil {
		return err
	}
	if err := writer.Write([]string{
		"", "", "Imbalance", report.Imbalance.StringFixed(),
	}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// WriteProfitabilityCSV emits per-product rollups in the report's
// descending-profit order plus the period summary.
func WriteProfitabilityCSV(w io.Writer, report profitability.Report) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{
		"Product ID", "Product", "Quantity", "Revenue", "Cost", "Profit", "Margin",
	}); err != nil {
		return err
	}
	for _, rec := range report.Records {
		if err := writer.Write([]string{
			strconv.FormatInt(rec.ProductID, 10),
			rec.ProductName,
			rec.Quantity.String(),
			rec.Revenue.StringFixed(),
			rec.Cost.StringFixed(),
			rec.Profit.StringFixed(),
			formatPercent(rec.Margin),
		}); err != nil {
			return err
		}
	}
	s := report.Summary
	if err := writer.Write([]string{
		"", "Period Total",
		s.TotalQuantity.String(),
		s.TotalRevenue.StringFixed(),
		s.TotalCost.StringFixed(),
		s.TotalProfit.StringFixed(),
		formatPercent(s.Margin),
	}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}
