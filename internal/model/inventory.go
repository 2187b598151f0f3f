package model

import "github.com/shopspring/decimal"

// InventoryRecord is one line of a stock count. Diff is physical minus system
// as reported by the source; negative means shrinkage.
type InventoryRecord struct {
	ItemName     string          `json:"item_name"`
	Category     string          `json:"category"`
	Unit         string          `json:"unit"`
	OpeningQty   decimal.Decimal `json:"opening_qty"`
	Purchased    decimal.Decimal `json:"purchases"`
	Sold         decimal.Decimal `json:"sales"`
	SystemQty    decimal.Decimal `json:"system_qty"`
	PhysicalQty  decimal.Decimal `json:"physical_qty"`
	Diff         decimal.Decimal `json:"diff"`
	COG          decimal.Decimal `json:"cog"` // per unit
	Consumption  decimal.Decimal `json:"consumption"`
	LostValue    decimal.Decimal `json:"lost_value"`
	TotalCOG     decimal.Decimal `json:"total_cog"`
	PurchaseCost decimal.Decimal `json:"purchase_cost"`
	Remark       string          `json:"remark"`
	Action       string          `json:"action"`
}

// Shrinkage reports whether fewer units were counted than the system expects.
func (r InventoryRecord) Shrinkage() bool {
	return r.Diff.IsNegative()
}
