package importer

import (
	"io"
	"strings"

	"github.com/ghostledger/ghostledger/internal/amount"
	"github.com/ghostledger/ghostledger/internal/model"
	"github.com/ghostledger/ghostledger/internal/tabular"
)

// SalesParser parses POS item-sales reports.
type SalesParser struct{}

// Columns relative to the "Category" header cell.
const (
	salesColCategory = iota
	salesColItem
	salesColQty
	salesColPrice
	salesColDiscount
	salesColBillDiscount
	salesColCost
	salesColTotal
)

// Kind returns KindSales.
func (SalesParser) Kind() Kind { return KindSales }

// Parse reads an item-sales export.
func (p SalesParser) Parse(r io.Reader, strict bool) (Batch, error) {
	text, nr, err := readAll(r, KindSales, strict)
	if err != nil {
		return Batch{}, err
	}
	return Batch{Kind: KindSales, Sales: ParseSales(text, nr), Warnings: nr.Warnings()}, nil
}

func isSalesHeader(row []string) bool {
	return tabular.IndexFold(row, "category") >= 0 && tabular.IndexFold(row, "item name") >= 0
}

// ParseSales extracts item lines from an item-sales export. The header is the
// first row with both "Category" and "Item Name" cells; without it the
// result is nil. Summary rows ("Total ...") and rows with no quantity and no
// sales are dropped. nr may be nil.
func ParseSales(text string, nr *amount.Reader) []model.SalesRecord {
	rows := tabular.ParseCSV(text)
	h := tabular.FindHeader(rows, isSalesHeader)
	if h < 0 {
		return nil
	}
	base := tabular.IndexFold(rows[h], "category")

	var records []model.SalesRecord
	for i := h + 1; i < len(rows); i++ {
		cols := rows[i]
		col := func(off int) string { return tabular.Cell(cols, base+off) }

		category := col(salesColCategory)
		itemName := col(salesColItem)
		if category == "" || itemName == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(category), "total") {
			continue
		}

		qty := nr.Parse(i, "qty", col(salesColQty))
		price := nr.Parse(i, "price", col(salesColPrice))
		discount := nr.Parse(i, "discount", col(salesColDiscount)).Abs()
		billDiscount := nr.Parse(i, "bill_discount", col(salesColBillDiscount)).Abs()
		cost := nr.Parse(i, "cost", col(salesColCost))
		total := nr.Parse(i, "total_sales", col(salesColTotal))

		if qty.IsZero() && total.IsZero() {
			continue
		}

		records = append(records, model.SalesRecord{
			Category:     category,
			ItemName:     itemName,
			Qty:          qty,
			Price:        price,
			Discount:     discount,
			BillDiscount: billDiscount,
			Cost:         cost,
			TotalSales:   total,
			NetRevenue:   price.Sub(discount).Sub(billDiscount),
		})
	}
	return records
}
