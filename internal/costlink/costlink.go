// Package costlink fills in missing unit costs on sales records from the
// stock count.
package costlink

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ghostledger/ghostledger/internal/model"
)

// Stats counts what a Link pass did.
type Stats struct {
	Missing    int `json:"missing"`    // records that needed a cost
	Linked     int `json:"linked"`     // of those, filled from inventory
	Unresolved int `json:"unresolved"` // of those, left at zero
}

// Link returns a copy of sales in which every record that sold something but
// carries no cost takes its cost from the inventory record with the same item
// name (case-insensitive). Total COG is preferred and per-unit COG used when
// the total is zero. A record is only changed when the candidate cost is
// positive. sales is not modified.
func Link(sales []model.SalesRecord, inventory []model.InventoryRecord) []model.SalesRecord {
	out, _ := LinkWithStats(sales, inventory)
	return out
}

// LinkWithStats is Link that also reports counts.
func LinkWithStats(sales []model.SalesRecord, inventory []model.InventoryRecord) ([]model.SalesRecord, Stats) {
	costs := indexCosts(inventory)

	var st Stats
	out := make([]model.SalesRecord, len(sales))
	for i, s := range sales {
		out[i] = s
		if !s.NeedsCost() {
			continue
		}
		st.Missing++
		if c, ok := costs[strings.ToLower(s.ItemName)]; ok && c.IsPositive() {
			out[i].Cost = c
			st.Linked++
			continue
		}
		st.Unresolved++
	}
	return out, st
}

// indexCosts maps lowercased item names to their candidate cost. The first
// inventory record for a name wins, even when its cost is zero.
func indexCosts(inventory []model.InventoryRecord) map[string]decimal.Decimal {
	costs := make(map[string]decimal.Decimal, len(inventory))
	for _, inv := range inventory {
		key := strings.ToLower(inv.ItemName)
		if _, ok := costs[key]; ok {
			continue
		}
		c := inv.TotalCOG
		if c.IsZero() {
			c = inv.COG
		}
		costs[key] = c
	}
	return costs
}
