package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/ghostledger/ghostledger/internal/id"
	"github.com/ghostledger/ghostledger/internal/model"
)

// Summary aggregates a reconciliation run.
type Summary struct {
	Lines          int             `json:"lines"`
	Matched        int             `json:"matched"`
	Partial        int             `json:"partial"`
	Unmatched      int             `json:"unmatched"`
	TotalVerified  decimal.Decimal `json:"total_verified"`  // bank amount of matched and partial lines
	TotalUnmatched decimal.Decimal `json:"total_unmatched"` // |gap| of unmatched lines
	TotalFees      decimal.Decimal `json:"total_fees"`      // gap of card lines
	MatchRate      decimal.Decimal `json:"match_rate"`      // matched / lines, 0..1
	SalesTotal     decimal.Decimal `json:"sales_total"`
	DepositTotal   decimal.Decimal `json:"deposit_total"`
	Discrepancy    decimal.Decimal `json:"discrepancy"` // SalesTotal - DepositTotal
}

// Result is the output of Run.
type Result struct {
	Strategy string                     `json:"strategy"`
	Lines    []model.ReconciliationLine `json:"lines"`
	Summary  Summary                    `json:"summary"`
}

// Run reconciles sales against the deposits in bank using s. It never
// fails: a deposit nothing explains is an unmatched line. Lines are numbered
// rec-0001, rec-0002, ... in output order.
func Run(sales []model.SalesRecord, bank []model.BankRecord, s Strategy) Result {
	deposits := Deposits(bank)
	lines := s.Reconcile(sales, deposits)
	for i := range lines {
		lines[i].ID = id.FormatLineID(i + 1)
	}
	return Result{
		Strategy: s.Name(),
		Lines:    lines,
		Summary:  Summarize(lines, sales, deposits),
	}
}

const matchRatePlaces = 4

// Summarize computes totals over reconciliation lines.
func Summarize(lines []model.ReconciliationLine, sales []model.SalesRecord, deposits []Deposit) Summary {
	sum := Summary{
		Lines:          len(lines),
		TotalVerified:  decimal.Zero,
		TotalUnmatched: decimal.Zero,
		TotalFees:      decimal.Zero,
		MatchRate:      decimal.Zero,
		SalesTotal:     decimal.Zero,
		DepositTotal:   decimal.Zero,
	}
	for _, l := range lines {
		switch l.Status {
		case model.StatusMatched:
			sum.Matched++
			sum.TotalVerified = sum.TotalVerified.Add(l.BankAmount)
		case model.StatusPartial:
			sum.Partial++
			sum.TotalVerified = sum.TotalVerified.Add(l.BankAmount)
		case model.StatusUnmatched:
			sum.Unmatched++
			sum.TotalUnmatched = sum.TotalUnmatched.Add(l.Gap.Abs())
		}
		if l.Channel == model.ChannelCard {
			sum.TotalFees = sum.TotalFees.Add(l.Gap)
		}
	}
	if len(lines) > 0 {
		sum.MatchRate = decimal.NewFromInt(int64(sum.Matched)).
			DivRound(decimal.NewFromInt(int64(len(lines))), matchRatePlaces)
	}
	for _, s := range sales {
		sum.SalesTotal = sum.SalesTotal.Add(s.TotalSales)
	}
	for _, d := range deposits {
		sum.DepositTotal = sum.DepositTotal.Add(d.Amount())
	}
	sum.Discrepancy = sum.SalesTotal.Sub(sum.DepositTotal)
	return sum
}
