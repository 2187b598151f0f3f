package report

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SheetLedger       = "Ledger"
	SheetTransactions = "Transactions"
	SheetQuality      = "Quality"

	defaultSheet = "Sheet1"
)

// WriteXLSX writes the ledger, categorized transactions and quality
// findings as an Excel workbook.
func WriteXLSX(w io.Writer, rep *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultSheet, SheetLedger); err != nil {
		return fmt.Errorf("naming ledger sheet: %w", err)
	}
	if err := writeRows(f, SheetLedger, ledgerRows(rep)); err != nil {
		return err
	}

	for _, s := range []struct {
		name string
		rows [][]any
	}{
		{SheetTransactions, transactionRows(rep)},
		{SheetQuality, qualityRows(rep)},
	} {
		if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("adding sheet %s: %w", s.name, err)
		}
		if err := writeRows(f, s.name, s.rows); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func ledgerRows(rep *Report) [][]any {
	rows := [][]any{{"Line", "Channel", "Status", "Source Amount", "Bank Amount", "Gap", "Bank Refs", "Reason"}}
	for _, l := range rep.Reconciliation.Lines {
		refs := MarshalLine(l)[colBankRefs]
		rows = append(rows, []any{
			l.ID, string(l.Channel), string(l.Status),
			money(l.SourceAmount), money(l.BankAmount), money(l.Gap),
			refs, l.Reason,
		})
	}
	return rows
}

func transactionRows(rep *Report) [][]any {
	rows := [][]any{{"ID", "Date", "Details", "Entity", "Reference", "Money In", "Money Out", "Balance", "Category", "Override"}}
	for _, t := range rep.Transactions {
		override := ""
		if t.Overridden {
			override = "yes"
		}
		rows = append(rows, []any{
			t.ID, t.Date, t.Details, t.Entity, t.Reference,
			money(t.MoneyIn), money(t.MoneyOut), money(t.Balance),
			t.Category, override,
		})
	}
	return rows
}

func qualityRows(rep *Report) [][]any {
	q := rep.Quality
	rows := [][]any{
		{"Check", "Item", "Value"},
		{"Health score", "", q.HealthScore},
		{"Sales total", "", money(q.Cash.SalesTotal)},
		{"Bank in", "", money(q.Cash.BankIn)},
		{"Bank out", "", money(q.Cash.BankOut)},
		{"Discrepancy", "", money(q.Cash.Discrepancy)},
		{"Value at risk", "", money(q.ValueAtRisk)},
	}
	for _, z := range q.ZeroCost {
		rows = append(rows, []any{"Zero cost", z.ItemName, money(z.TotalSales)})
	}
	for _, l := range q.Leaks {
		rows = append(rows, []any{"Inventory leak", l.ItemName, money(l.Loss)})
	}
	for _, p := range q.UncategorizedPurchases {
		rows = append(rows, []any{"Uncategorized purchase", p.Remark, money(p.Amount)})
	}
	for _, e := range q.UnknownExpenseLines {
		rows = append(rows, []any{"Unknown expense line", e, ""})
	}
	return rows
}
