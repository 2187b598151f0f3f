// Package quality scores how complete and consistent a set of exports is.
package quality

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ghostledger/ghostledger/internal/costlink"
	"github.com/ghostledger/ghostledger/internal/model"
)

// Vocabulary resolves free-text labels to destination categories.
type Vocabulary interface {
	Match(label string) (model.Category, bool)
}

// Input is everything a quality check looks at. Sales should already be
// cost-linked.
type Input struct {
	Sales      []model.SalesRecord
	Inventory  []model.InventoryRecord
	Purchases  []model.PurchaseRecord
	Bank       []model.BankRecord
	Income     *model.IncomeStatement
	Vocabulary Vocabulary
}

// Leak is a stock item counted short.
type Leak struct {
	ItemName string          `json:"item_name"`
	Category string          `json:"category"`
	Diff     decimal.Decimal `json:"diff"`
	Loss     decimal.Decimal `json:"loss"` // |total COG|
}

// CashCheck compares POS takings with bank movements.
type CashCheck struct {
	SalesTotal  decimal.Decimal `json:"sales_total"`
	BankIn      decimal.Decimal `json:"bank_in"`
	BankOut     decimal.Decimal `json:"bank_out"`
	Discrepancy decimal.Decimal `json:"discrepancy"` // SalesTotal - BankIn
}

// Report is the outcome of Check.
type Report struct {
	HealthScore            int                    `json:"health_score"` // 0..100
	SoldItems              int                    `json:"sold_items"`
	ZeroCost               []costlink.Suggestion  `json:"zero_cost"`
	Leaks                  []Leak                 `json:"leaks"`
	ValueAtRisk            decimal.Decimal        `json:"value_at_risk"`
	Cash                   CashCheck              `json:"cash"`
	CheckedPurchases       int                    `json:"checked_purchases"`
	UncategorizedPurchases []model.PurchaseRecord `json:"uncategorized_purchases"`
	InventoryWithDiff      int                    `json:"inventory_with_diff"`
	UnknownExpenseLines    []string               `json:"unknown_expense_lines"`
}

// Remarks with these prefixes are bookkeeping moves, not purchases.
var nonPurchasePrefixes = []string{"internal", "wrong", "asset", "profit share"}

// Check runs every data-quality check.
//
// The health score starts at 100 and loses up to 40 points for sold items
// without cost, up to 30 for purchases no category recognizes and up to 30
// for stock lines whose count differs from the system.
func Check(in Input) Report {
	var rep Report

	rep.ZeroCost = costlink.Suggest(in.Sales, in.Inventory)
	for _, s := range in.Sales {
		if s.TotalSales.IsPositive() {
			rep.SoldItems++
		}
	}

	rep.Leaks, rep.ValueAtRisk = leaks(in.Inventory)
	for _, inv := range in.Inventory {
		if !inv.Diff.IsZero() {
			rep.InventoryWithDiff++
		}
	}

	rep.Cash = cashCheck(in.Sales, in.Bank)

	for _, p := range in.Purchases {
		if !isPurchase(p.Remark) {
			continue
		}
		rep.CheckedPurchases++
		if !known(in.Vocabulary, p.Remark) {
			rep.UncategorizedPurchases = append(rep.UncategorizedPurchases, p)
		}
	}

	if in.Income != nil {
		for _, e := range in.Income.Expenses {
			if !known(in.Vocabulary, e.Category) {
				rep.UnknownExpenseLines = append(rep.UnknownExpenseLines, e.Category)
			}
		}
	}

	rep.HealthScore = healthScore(
		ratio(len(rep.ZeroCost), rep.SoldItems),
		ratio(len(rep.UncategorizedPurchases), rep.CheckedPurchases),
		ratio(rep.InventoryWithDiff, len(in.Inventory)),
	)
	return rep
}

func isPurchase(remark string) bool {
	r := strings.ToLower(remark)
	for _, p := range nonPurchasePrefixes {
		if strings.HasPrefix(r, p) {
			return false
		}
	}
	return true
}

func known(v Vocabulary, label string) bool {
	if v == nil {
		return false
	}
	_, ok := v.Match(label)
	return ok
}

func leaks(inventory []model.InventoryRecord) ([]Leak, decimal.Decimal) {
	var out []Leak
	total := decimal.Zero
	for _, inv := range inventory {
		if !inv.Shrinkage() {
			continue
		}
		l := Leak{ItemName: inv.ItemName, Category: inv.Category, Diff: inv.Diff, Loss: inv.TotalCOG.Abs()}
		out = append(out, l)
		total = total.Add(l.Loss)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Loss.GreaterThan(out[j].Loss) })
	return out, total
}

func cashCheck(sales []model.SalesRecord, bank []model.BankRecord) CashCheck {
	c := CashCheck{SalesTotal: decimal.Zero, BankIn: decimal.Zero, BankOut: decimal.Zero}
	for _, s := range sales {
		c.SalesTotal = c.SalesTotal.Add(s.TotalSales)
	}
	for _, b := range bank {
		if b.MoneyIn.IsPositive() {
			c.BankIn = c.BankIn.Add(b.MoneyIn)
		}
		if b.MoneyOut.IsPositive() {
			c.BankOut = c.BankOut.Add(b.MoneyOut)
		}
	}
	c.Discrepancy = c.SalesTotal.Sub(c.BankIn)
	return c
}

func ratio(n, of int) decimal.Decimal {
	if of == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(n)).Div(decimal.NewFromInt(int64(of)))
}

var (
	costWeight      = decimal.NewFromInt(40)
	categoryWeight  = decimal.NewFromInt(30)
	inventoryWeight = decimal.NewFromInt(30)
	fullScore       = decimal.NewFromInt(100)
)

func healthScore(zeroCost, uncategorized, inventoryDiff decimal.Decimal) int {
	s := fullScore.
		Sub(zeroCost.Mul(costWeight)).
		Sub(uncategorized.Mul(categoryWeight)).
		Sub(inventoryDiff.Mul(inventoryWeight)).
		Round(0)
	if s.IsNegative() {
		return 0
	}
	return int(s.IntPart())
}
