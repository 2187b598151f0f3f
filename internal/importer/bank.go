package importer

import (
	"io"
	"regexp"
	"strings"

	"github.com/ghostledger/ghostledger/internal/amount"
	"github.com/ghostledger/ghostledger/internal/classify"
	"github.com/ghostledger/ghostledger/internal/id"
	"github.com/ghostledger/ghostledger/internal/model"
	"github.com/ghostledger/ghostledger/internal/tabular"
)

// Classifier assigns a destination category to a bank line. "" means
// uncategorized.
type Classifier interface {
	Classify(remark, entity, details string) string
}

// BankParser parses bank account activity exports.
type BankParser struct {
	Classifier Classifier // nil uses the built-in rules
}

// Columns relative to the "Date" header cell.
const (
	bankColDate     = 0
	bankColDetails  = 1
	bankColMoneyIn  = 2
	bankColCurrency = 3
	bankColMoneyOut = 4
	bankColBalance  = 6

	defaultCurrency = "USD"
	bankIDPrefix    = "bnk"
)

var (
	entityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)PAYMENT FROM\s+(.+?)(?:\s*\*{3}|\s+\d{5,}|\s+BANK\s)`),
		regexp.MustCompile(`(?i)FUNDS TRANSFERRED TO\s+(.+?)(?:\s+\d{5,})`),
		regexp.MustCompile(`(?i)FUNDS RECEIVED FROM\s+(.+?)(?:\s+\()`),
	}
	maskChars      = regexp.MustCompile(`\*+`)
	referenceToken = regexp.MustCompile(`(?i)REF#\s*(\S+)`)
	remarkText     = regexp.MustCompile(`(?i)REMARK:\s*(.+?)(?:\s{2,}|REF#|PURCHASE#|$)`)
	billNumber     = regexp.MustCompile(`(?i)(?:Bill|B|#)\s*(\d{5,})`)
)

// Kind returns KindBank.
func (BankParser) Kind() Kind { return KindBank }

// Parse reads a bank activity export.
func (p BankParser) Parse(r io.Reader, strict bool) (Batch, error) {
	text, nr, err := readAll(r, KindBank, strict)
	if err != nil {
		return Batch{}, err
	}
	return Batch{Kind: KindBank, Bank: ParseBank(text, nr, p.Classifier), Warnings: nr.Warnings()}, nil
}

func isBankHeader(row []string) bool {
	return tabular.HasCell(row, "Date") && tabular.HasCell(row, "Transaction Details")
}

// ParseBank extracts ledger lines from a bank activity export. The header is
// the first row with exact "Date" and "Transaction Details" cells; without
// it the result is nil. Rows missing a date or details are dropped.
//
// Entity, reference, remark and bill number are pulled from the free-text
// details on a best-effort basis and are empty when not found. Each record
// gets a content-derived ID that is stable across runs. nr and c may be nil.
func ParseBank(text string, nr *amount.Reader, c Classifier) []model.BankRecord {
	if c == nil {
		c = classify.Default()
	}
	rows := tabular.ParseCSV(text)
	h := tabular.FindHeader(rows, isBankHeader)
	if h < 0 {
		return nil
	}
	base := tabular.IndexOf(rows[h], "Date")
	seq := id.NewSequencer()

	var records []model.BankRecord
	for i := h + 1; i < len(rows); i++ {
		cols := rows[i]
		col := func(off int) string { return tabular.Cell(cols, base+off) }

		date := col(bankColDate)
		details := col(bankColDetails)
		if date == "" || details == "" {
			continue
		}

		moneyIn := nr.Parse(i, "money_in", col(bankColMoneyIn))
		moneyOut := nr.Parse(i, "money_out", col(bankColMoneyOut))
		balance := nr.Parse(i, "balance", col(bankColBalance))
		currency := col(bankColCurrency)
		if currency == "" {
			currency = defaultCurrency
		}

		entity := ExtractEntity(details)
		remark := ExtractRemark(details)
		rec := model.BankRecord{
			ID:          seq.Next(id.Record(bankIDPrefix, date, details, moneyIn.String(), moneyOut.String(), balance.String())),
			Date:        date,
			Details:     details,
			Entity:      entity,
			Reference:   ExtractReference(details),
			MoneyIn:     moneyIn,
			MoneyOut:    moneyOut,
			Currency:    currency,
			Balance:     balance,
			Remark:      remark,
			BillID:      ExtractBillID(details),
			Destination: c.Classify(remark, entity, details),
		}
		records = append(records, rec)
	}
	return records
}

// ExtractEntity returns the payer or payee named in bank details, with
// masking asterisks removed.
func ExtractEntity(details string) string {
	for _, re := range entityPatterns {
		if m := re.FindStringSubmatch(details); m != nil {
			return strings.TrimSpace(maskChars.ReplaceAllString(m[1], ""))
		}
	}
	return ""
}

// ExtractReference returns the token after "REF#".
func ExtractReference(details string) string {
	if m := referenceToken.FindStringSubmatch(details); m != nil {
		return m[1]
	}
	return ""
}

// ExtractRemark returns the text after "REMARK:", up to a wide gap or the
// next marker.
func ExtractRemark(details string) string {
	if m := remarkText.FindStringSubmatch(details); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// ExtractBillID returns a POS bill number referenced in bank details.
func ExtractBillID(details string) string {
	if m := billNumber.FindStringSubmatch(details); m != nil {
		return m[1]
	}
	return ""
}
