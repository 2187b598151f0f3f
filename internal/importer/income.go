package importer

import (
	"io"
	"regexp"
	"strings"

	"github.com/ghostledger/ghostledger/internal/amount"
	"github.com/ghostledger/ghostledger/internal/model"
	"github.com/ghostledger/ghostledger/internal/tabular"
)

// IncomeParser parses income statement exports.
type IncomeParser struct{}

const (
	incomeColLabel = iota
	incomeColAmount
	incomeColPercent
	incomeColNote
)

// Sentinel labels of an income statement.
const (
	labelTitle        = "Income Statement"
	labelRevenue      = "Revenue"
	labelTotalExpense = "Total Expense"
	labelGrossProfit  = "Gross profit"
	labelProfitShare  = "Profit share"
)

var periodLabel = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)

// Kind returns KindIncome.
func (IncomeParser) Kind() Kind { return KindIncome }

// Parse reads an income statement export.
func (p IncomeParser) Parse(r io.Reader, strict bool) (Batch, error) {
	text, nr, err := readAll(r, KindIncome, strict)
	if err != nil {
		return Batch{}, err
	}
	stmt := ParseIncomeStatement(text, nr)
	return Batch{Kind: KindIncome, Income: &stmt, Warnings: nr.Warnings()}, nil
}

// ParseIncomeStatement reads label/amount/percentage/note rows.
//
// Expense lines are only taken between the "Revenue" row and the
// "Total Expense" row. Labelled rows outside that window are ignored even
// when they look like expenses. Expense and total expense amounts are
// stored as absolute values.
func ParseIncomeStatement(text string, nr *amount.Reader) model.IncomeStatement {
	var (
		stmt             model.IncomeStatement
		pastRevenue      bool
		pastTotalExpense bool
	)

	for i, cols := range tabular.ParseCSV(text) {
		label := tabular.Cell(cols, incomeColLabel)
		amountRaw := tabular.Cell(cols, incomeColAmount)

		if periodLabel.MatchString(label) {
			stmt.Period = label
			continue
		}
		if label == labelTitle {
			continue
		}
		if label == "" && amountRaw == "" {
			continue
		}

		value := nr.Parse(i, "amount", amountRaw)

		switch {
		case label == labelRevenue:
			stmt.Revenue = value
			pastRevenue = true
		case label == labelTotalExpense:
			stmt.TotalExpense = value.Abs()
			pastTotalExpense = true
		case strings.HasPrefix(label, labelGrossProfit):
			stmt.GrossProfit = value
		case strings.HasPrefix(label, labelProfitShare):
			stmt.ProfitShares = append(stmt.ProfitShares, model.ProfitShare{
				Name:   strings.Replace(label, labelProfitShare+"-", "", 1),
				Amount: value,
			})
		case pastRevenue && !pastTotalExpense && label != "":
			stmt.Expenses = append(stmt.Expenses, model.IncomeLine{
				Category:   label,
				Amount:     value.Abs(),
				Percentage: amount.ParsePercent(tabular.Cell(cols, incomeColPercent)),
				Note:       tabular.Cell(cols, incomeColNote),
			})
		}
	}
	return stmt
}
