// Package tax estimates VAT and public lighting tax on POS sales.
package tax

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ghostledger/ghostledger/internal/model"
)

// Rates holds the tax rates and the sales categories subject to PLT.
type Rates struct {
	VAT           decimal.Decimal
	PLT           decimal.Decimal
	PLTCategories []string
}

// DefaultRates returns 10% VAT on everything and 3% PLT on drinks and
// tobacco.
func DefaultRates() Rates {
	return Rates{
		VAT:           decimal.RequireFromString("0.10"),
		PLT:           decimal.RequireFromString("0.03"),
		PLTCategories: []string{"Beverage", "Liquor", "Alcohol", "Tobacco"},
	}
}

// PLTApplies reports whether sales in category carry PLT.
func (r Rates) PLTApplies(category string) bool {
	for _, c := range r.PLTCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Breakdown is the tax due on a base amount. Each tax is rounded to cents.
type Breakdown struct {
	Base       decimal.Decimal `json:"base"`
	VAT        decimal.Decimal `json:"vat"`
	PLT        decimal.Decimal `json:"plt"`
	Total      decimal.Decimal `json:"total"`       // VAT + PLT
	GrandTotal decimal.Decimal `json:"grand_total"` // Base + Total
}

// Compute returns the tax on amount.
func (r Rates) Compute(amount decimal.Decimal, applyVAT, applyPLT bool) Breakdown {
	b := Breakdown{Base: amount, VAT: decimal.Zero, PLT: decimal.Zero}
	if applyVAT {
		b.VAT = amount.Mul(r.VAT).Round(2)
	}
	if applyPLT {
		b.PLT = amount.Mul(r.PLT).Round(2)
	}
	b.Total = b.VAT.Add(b.PLT)
	b.GrandTotal = amount.Add(b.Total)
	return b
}

func (b Breakdown) add(o Breakdown) Breakdown {
	return Breakdown{
		Base:       b.Base.Add(o.Base),
		VAT:        b.VAT.Add(o.VAT),
		PLT:        b.PLT.Add(o.PLT),
		Total:      b.Total.Add(o.Total),
		GrandTotal: b.GrandTotal.Add(o.GrandTotal),
	}
}

var zero = Breakdown{
	Base:       decimal.Zero,
	VAT:        decimal.Zero,
	PLT:        decimal.Zero,
	Total:      decimal.Zero,
	GrandTotal: decimal.Zero,
}

// CategoryBreakdown is the tax on one sales category.
type CategoryBreakdown struct {
	Category string `json:"category"`
	Breakdown
}

// Estimate is the tax on a whole sales report.
type Estimate struct {
	Total      Breakdown           `json:"total"`
	Categories []CategoryBreakdown `json:"categories"` // sorted by category
}

// ForSales estimates tax per sales line, rounding each line, and totals it
// by category.
func (r Rates) ForSales(sales []model.SalesRecord) Estimate {
	byCat := make(map[string]Breakdown)
	total := zero
	for _, s := range sales {
		b := r.Compute(s.TotalSales, true, r.PLTApplies(s.Category))
		cur, ok := byCat[s.Category]
		if !ok {
			cur = zero
		}
		byCat[s.Category] = cur.add(b)
		total = total.add(b)
	}

	cats := make([]CategoryBreakdown, 0, len(byCat))
	for c, b := range byCat {
		cats = append(cats, CategoryBreakdown{Category: c, Breakdown: b})
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].Category < cats[j].Category })
	return Estimate{Total: total, Categories: cats}
}
