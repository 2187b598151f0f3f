package model

import "github.com/shopspring/decimal"

// IncomeLine is one expense line of an income statement.
type IncomeLine struct {
	Category   string              `json:"category"`
	Amount     decimal.Decimal     `json:"amount"`
	Percentage decimal.NullDecimal `json:"percentage"` // of revenue, when reported
	Note       string              `json:"note"`
}

// ProfitShare is a named distribution of profit.
type ProfitShare struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// IncomeStatement is a parsed profit and loss report.
type IncomeStatement struct {
	Period       string          `json:"period"`
	Revenue      decimal.Decimal `json:"revenue"`
	Expenses     []IncomeLine    `json:"expenses"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	GrossProfit  decimal.Decimal `json:"gross_profit"`
	ProfitShares []ProfitShare   `json:"profit_shares"`
}

// ExpenseSum adds up the parsed expense lines. It can differ from
// TotalExpense when the source omits or duplicates lines.
func (s IncomeStatement) ExpenseSum() decimal.Decimal {
	sum := decimal.Zero
	for _, e := range s.Expenses {
		sum = sum.Add(e.Amount)
	}
	return sum
}
