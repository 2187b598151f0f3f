package model

import "github.com/shopspring/decimal"

// BankRecord is one line of a bank account activity export.
type BankRecord struct {
	ID          string          `json:"id"`   // stable content-derived identity
	Date        string          `json:"date"` // as exported, not normalized
	Details     string          `json:"transaction_details"`
	Entity      string          `json:"entity"`    // payer or payee, best effort
	Reference   string          `json:"reference"` // REF# token, best effort
	MoneyIn     decimal.Decimal `json:"money_in"`
	MoneyOut    decimal.Decimal `json:"money_out"`
	Currency    string          `json:"currency"`
	Balance     decimal.Decimal `json:"balance"`
	Remark      string          `json:"remark"`
	BillID      string          `json:"matched_bill_id,omitempty"`
	Destination string          `json:"destination"` // "" = Uncategorized
}

// IsDeposit reports whether the line brought money into the account.
func (b BankRecord) IsDeposit() bool {
	return b.MoneyIn.IsPositive()
}

// Deposits returns the deposit lines of records, preserving order.
func Deposits(records []BankRecord) []BankRecord {
	var out []BankRecord
	for _, r := range records {
		if r.IsDeposit() {
			out = append(out, r)
		}
	}
	return out
}
