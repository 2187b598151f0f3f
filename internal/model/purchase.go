package model

import "github.com/shopspring/decimal"

// PurchaseRecord is one vendor payment.
type PurchaseRecord struct {
	Date   string          `json:"date"`
	Remark string          `json:"remark"`
	Amount decimal.Decimal `json:"amount"`
}
