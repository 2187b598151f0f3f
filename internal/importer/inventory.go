package importer

import (
	"io"
	"regexp"

	"github.com/ghostledger/ghostledger/internal/amount"
	"github.com/ghostledger/ghostledger/internal/model"
	"github.com/ghostledger/ghostledger/internal/tabular"
)

// InventoryParser parses stock-count exports in either of the layouts the
// stock system produces.
type InventoryParser struct{}

// InventoryVariant identifies a stock-count export layout.
type InventoryVariant int

const (
	// InventoryTSV is tab-delimited with four preamble rows.
	InventoryTSV InventoryVariant = iota
	// InventoryCSVWithHeader is comma-delimited with an "Items"/"UOM" header.
	InventoryCSVWithHeader
	// InventoryCSVFixedOffset is comma-delimited with no recognizable header.
	InventoryCSVFixedOffset
)

func (v InventoryVariant) String() string {
	switch v {
	case InventoryTSV:
		return "tsv"
	case InventoryCSVWithHeader:
		return "csv-header"
	case InventoryCSVFixedOffset:
		return "csv-fixed"
	default:
		return "unknown"
	}
}

// InventoryLayout says where item rows start and which column holds the
// item name. Every other column is at a fixed offset from the item column.
type InventoryLayout struct {
	Variant   InventoryVariant
	DataStart int
	ItemCol   int
}

const (
	inventoryPreambleRows = 4
	inventoryTSVItemCol   = 4
	inventoryCSVItemCol   = 5
	uncategorized         = "Uncategorized"
)

// Offsets from the item column.
const (
	invColCategory = -3
	invColUnit     = iota // 1
	invColOpening
	invColPurchased
	invColSold
	invColSystem
	invColPhysical
	invColDiff
	invColCOG
	invColConsumption
	invColLost
	invColTotalCOG
	invColPurchaseCost
	invColRemark
	invColAction
)

// summaryItem matches item cells that are really totals ("1,234.00").
var summaryItem = regexp.MustCompile(`^\d[\d.,\s()-]*$`)

// Kind returns KindInventory.
func (InventoryParser) Kind() Kind { return KindInventory }

// Parse reads a stock-count export.
func (p InventoryParser) Parse(r io.Reader, strict bool) (Batch, error) {
	text, nr, err := readAll(r, KindInventory, strict)
	if err != nil {
		return Batch{}, err
	}
	return Batch{Kind: KindInventory, Inventory: ParseInventory(text, nr), Warnings: nr.Warnings()}, nil
}

func isInventoryHeader(row []string) bool {
	return tabular.HasCell(row, "Items") && tabular.HasCell(row, "UOM")
}

// SniffInventory detects the layout of a stock-count export.
func SniffInventory(text string) InventoryLayout {
	layout, _ := sniffInventory(text)
	return layout
}

func sniffInventory(text string) (InventoryLayout, [][]string) {
	format := tabular.Sniff(text)
	rows := tabular.Parse(text, format)
	if format == tabular.FormatTSV {
		return InventoryLayout{Variant: InventoryTSV, DataStart: inventoryPreambleRows, ItemCol: inventoryTSVItemCol}, rows
	}
	if h := tabular.FindHeader(rows, isInventoryHeader); h >= 0 {
		return InventoryLayout{Variant: InventoryCSVWithHeader, DataStart: h + 1, ItemCol: inventoryCSVItemCol}, rows
	}
	return InventoryLayout{Variant: InventoryCSVFixedOffset, DataStart: inventoryPreambleRows, ItemCol: inventoryCSVItemCol}, rows
}

// ParseInventory extracts stock lines from a stock-count export in any
// supported layout. Rows without an item name are dropped, as are total rows
// in the comma-delimited layouts. Diff is taken from the export as is.
func ParseInventory(text string, nr *amount.Reader) []model.InventoryRecord {
	layout, rows := sniffInventory(text)

	var records []model.InventoryRecord
	for i := layout.DataStart; i < len(rows); i++ {
		cols := rows[i]
		col := func(off int) string { return tabular.Cell(cols, layout.ItemCol+off) }

		itemName := col(0)
		if itemName == "" {
			continue
		}
		if layout.Variant != InventoryTSV && summaryItem.MatchString(itemName) {
			continue
		}

		category := col(invColCategory)
		if category == "" {
			category = uncategorized
		}

		records = append(records, model.InventoryRecord{
			ItemName:     itemName,
			Category:     category,
			Unit:         col(invColUnit),
			OpeningQty:   nr.Parse(i, "opening_qty", col(invColOpening)),
			Purchased:    nr.Parse(i, "purchases", col(invColPurchased)),
			Sold:         nr.Parse(i, "sales", col(invColSold)),
			SystemQty:    nr.Parse(i, "system_qty", col(invColSystem)),
			PhysicalQty:  nr.Parse(i, "physical_qty", col(invColPhysical)),
			Diff:         nr.Parse(i, "diff", col(invColDiff)),
			COG:          nr.Parse(i, "cog", col(invColCOG)),
			Consumption:  nr.Parse(i, "consumption", col(invColConsumption)),
			LostValue:    nr.Parse(i, "lost_value", col(invColLost)),
			TotalCOG:     nr.Parse(i, "total_cog", col(invColTotalCOG)),
			PurchaseCost: nr.Parse(i, "purchase_cost", col(invColPurchaseCost)),
			Remark:       col(invColRemark),
			Action:       col(invColAction),
		})
	}
	return records
}
