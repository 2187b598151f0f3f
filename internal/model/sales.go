package model

import "github.com/shopspring/decimal"

// SalesRecord is one item line of a POS item-sales report. ItemName is the
// natural key within a report.
type SalesRecord struct {
	Category     string          `json:"category"`
	ItemName     string          `json:"item_name"`
	Qty          decimal.Decimal `json:"qty"`
	Price        decimal.Decimal `json:"price"`
	Discount     decimal.Decimal `json:"discount"`
	BillDiscount decimal.Decimal `json:"bill_discount"`
	Cost         decimal.Decimal `json:"cost"` // zero = unknown, filled by cost linking
	TotalSales   decimal.Decimal `json:"total_sales"`
	NetRevenue   decimal.Decimal `json:"net_revenue"` // Price - Discount - BillDiscount
}

// Profit is total sales less the recorded cost.
func (s SalesRecord) Profit() decimal.Decimal {
	return s.TotalSales.Sub(s.Cost)
}

// NeedsCost reports whether the record sold something but carries no cost.
func (s SalesRecord) NeedsCost() bool {
	return s.Cost.IsZero() && s.Qty.IsPositive()
}
