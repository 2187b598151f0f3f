package costlink

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ghostledger/ghostledger/internal/model"
)

// Suggestion proposes an inventory item for a sales line that still has no
// cost. Suggestions are for review and are never applied by Link.
type Suggestion struct {
	ItemName      string          `json:"item_name"`
	Category      string          `json:"category"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	InventoryName string          `json:"inventory_name,omitempty"` // "" when nothing resembles the item
	InventoryCOG  decimal.Decimal `json:"inventory_cog"`
}

// Suggest lists sales lines with revenue and no cost, each paired with the
// first inventory record whose name equals, contains, or is contained in the
// item name (case-insensitive).
func Suggest(sales []model.SalesRecord, inventory []model.InventoryRecord) []Suggestion {
	var out []Suggestion
	for _, s := range sales {
		if !s.Cost.IsZero() || !s.TotalSales.IsPositive() {
			continue
		}
		sg := Suggestion{ItemName: s.ItemName, Category: s.Category, TotalSales: s.TotalSales}
		if inv, ok := resemble(s.ItemName, inventory); ok {
			sg.InventoryName = inv.ItemName
			sg.InventoryCOG = inv.COG
		}
		out = append(out, sg)
	}
	return out
}

func resemble(name string, inventory []model.InventoryRecord) (model.InventoryRecord, bool) {
	n := strings.ToLower(name)
	for _, inv := range inventory {
		m := strings.ToLower(inv.ItemName)
		if m == n || strings.Contains(m, n) || strings.Contains(n, m) {
			return inv, true
		}
	}
	return model.InventoryRecord{}, false
}
