package importer

import (
	"io"

	"github.com/ghostledger/ghostledger/internal/amount"
	"github.com/ghostledger/ghostledger/internal/model"
	"github.com/ghostledger/ghostledger/internal/tabular"
)

// PurchasesParser parses vendor payment ledgers.
type PurchasesParser struct{}

const (
	purchaseColDate = iota
	purchaseColRemark
	purchaseColAmount

	// purchasesFallbackStart skips the single title row of exports that
	// have no header.
	purchasesFallbackStart = 1
)

// Kind returns KindPurchases.
func (PurchasesParser) Kind() Kind { return KindPurchases }

// Parse reads a vendor payment export.
func (p PurchasesParser) Parse(r io.Reader, strict bool) (Batch, error) {
	text, nr, err := readAll(r, KindPurchases, strict)
	if err != nil {
		return Batch{}, err
	}
	return Batch{Kind: KindPurchases, Purchases: ParsePurchases(text, nr), Warnings: nr.Warnings()}, nil
}

func isPurchasesHeader(row []string) bool {
	return tabular.IndexFold(row, "date") >= 0 && tabular.IndexFold(row, "remark") >= 0
}

// ParsePurchases extracts vendor payments. Rows with no date, no remark or a
// zero amount are dropped.
func ParsePurchases(text string, nr *amount.Reader) []model.PurchaseRecord {
	rows := tabular.ParseCSV(text)
	start := purchasesFallbackStart
	if h := tabular.FindHeader(rows, isPurchasesHeader); h >= 0 {
		start = h + 1
	}

	var records []model.PurchaseRecord
	for i := start; i < len(rows); i++ {
		cols := rows[i]
		date := tabular.Cell(cols, purchaseColDate)
		remark := tabular.Cell(cols, purchaseColRemark)
		if date == "" || remark == "" {
			continue
		}
		amt := nr.Parse(i, "amount", tabular.Cell(cols, purchaseColAmount))
		if amt.IsZero() {
			continue
		}
		records = append(records, model.PurchaseRecord{Date: date, Remark: remark, Amount: amt})
	}
	return records
}
