package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ghostledger/ghostledger/internal/model"
)

// LedgerHeader is the CSV header for ledger.csv.
const LedgerHeader = "line_id,channel,status,source_amount,bank_amount,gap,sales_refs,bank_refs,reason"

const (
	numFields    = 9
	refSep       = ";"
	colLineID    = 0
	colChannel   = 1
	colStatus    = 2
	colSource    = 3
	colBank      = 4
	colGap       = 5
	colSalesRefs = 6
	colBankRefs  = 7
	colReason    = 8
)

// ReadLines reads reconciliation lines from a ledger.csv reader.
func ReadLines(r io.Reader) ([]model.ReconciliationLine, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var lines []model.ReconciliationLine
	for i, rec := range records[1:] {
		line, err := UnmarshalLine(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// WriteLines writes reconciliation lines to a ledger.csv writer, header
// included.
func WriteLines(w io.Writer, lines []model.ReconciliationLine) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(LedgerHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, line := range lines {
		if err := cw.Write(MarshalLine(line)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalLine converts a reconciliation line to a CSV row.
func MarshalLine(line model.ReconciliationLine) []string {
	row := make([]string, numFields)
	row[colLineID] = line.ID
	row[colChannel] = string(line.Channel)
	row[colStatus] = string(line.Status)
	row[colSource] = formatAmount(line.SourceAmount)
	row[colBank] = formatAmount(line.BankAmount)
	row[colGap] = formatAmount(line.Gap)

	refs := make([]string, len(line.SalesRefs))
	for i, ref := range line.SalesRefs {
		refs[i] = strconv.Itoa(ref)
	}
	row[colSalesRefs] = strings.Join(refs, refSep)
	row[colBankRefs] = strings.Join(line.BankRefs, refSep)
	row[colReason] = line.Reason
	return row
}

// formatAmount writes cents for ordinary amounts and every digit otherwise,
// so ReadLines gets back exactly what was written.
func formatAmount(d decimal.Decimal) string {
	if d.Exponent() >= -2 || d.Equal(d.Round(2)) {
		return d.StringFixed(2)
	}
	return d.String()
}

// UnmarshalLine converts a CSV row to a reconciliation line.
func UnmarshalLine(record []string) (model.ReconciliationLine, error) {
	if len(record) != numFields {
		return model.ReconciliationLine{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	var amounts [3]decimal.Decimal
	for i, col := range []int{colSource, colBank, colGap} {
		d, err := decimal.NewFromString(record[col])
		if err != nil {
			return model.ReconciliationLine{}, fmt.Errorf("parsing amount %q: %w", record[col], err)
		}
		amounts[i] = d
	}

	var salesRefs []int
	if record[colSalesRefs] != "" {
		for _, s := range strings.Split(record[colSalesRefs], refSep) {
			n, err := strconv.Atoi(s)
			if err != nil {
				return model.ReconciliationLine{}, fmt.Errorf("parsing sales ref %q: %w", s, err)
			}
			salesRefs = append(salesRefs, n)
		}
	}

	var bankRefs []string
	if record[colBankRefs] != "" {
		bankRefs = strings.Split(record[colBankRefs], refSep)
	}

	return model.ReconciliationLine{
		ID:           record[colLineID],
		Channel:      model.Channel(record[colChannel]),
		Status:       model.MatchStatus(record[colStatus]),
		SourceAmount: amounts[0],
		BankAmount:   amounts[1],
		Gap:          amounts[2],
		SalesRefs:    salesRefs,
		BankRefs:     bankRefs,
		Reason:       record[colReason],
	}, nil
}
