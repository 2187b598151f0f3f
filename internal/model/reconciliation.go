package model

import "github.com/shopspring/decimal"

// Channel names the heuristic that explained a reconciliation line.
type Channel string

const (
	ChannelReference Channel = "reference"
	ChannelCard      Channel = "card"
	ChannelCash      Channel = "cash"
	ChannelUnknown   Channel = "unknown"
)

// MatchStatus is the confidence of a reconciliation line.
type MatchStatus string

const (
	StatusMatched   MatchStatus = "matched"
	StatusPartial   MatchStatus = "partial"
	StatusUnmatched MatchStatus = "unmatched"
)

// ReconciliationLine explains one deposit, one sale, or a pairing of both.
type ReconciliationLine struct {
	ID           string          `json:"id"`
	Channel      Channel         `json:"channel"`
	Status       MatchStatus     `json:"status"`
	SourceAmount decimal.Decimal `json:"source_amount"`
	BankAmount   decimal.Decimal `json:"bank_amount"`
	Gap          decimal.Decimal `json:"gap"` // SourceAmount - BankAmount
	SalesRefs    []int           `json:"sales_refs,omitempty"`
	BankRefs     []string        `json:"bank_refs,omitempty"`
	Reason       string          `json:"reason"`
}
