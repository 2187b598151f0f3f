package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/ghostledger/ghostledger/internal/model"
)

// Deposit is a bank line with money coming in. Pos is its position among
// all deposits of a run.
type Deposit struct {
	Pos    int
	Record model.BankRecord
}

// Amount is the deposited amount.
func (d Deposit) Amount() decimal.Decimal {
	return d.Record.MoneyIn
}

// Deposits selects the deposits of a bank ledger, in ledger order.
func Deposits(bank []model.BankRecord) []Deposit {
	var out []Deposit
	for _, r := range model.Deposits(bank) {
		out = append(out, Deposit{Pos: len(out), Record: r})
	}
	return out
}

// Claim explains one deposit.
type Claim struct {
	Pos       int // Deposit.Pos
	Channel   model.Channel
	Status    model.MatchStatus
	Source    decimal.Decimal // amount the deposit is believed to settle
	SalesRefs []int
	Reason    string
}

// claimSet records which deposits are taken. A deposit can be taken once.
type claimSet struct {
	n     int
	taken map[int]bool
}

func newClaimSet(n int) *claimSet {
	return &claimSet{n: n, taken: make(map[int]bool, n)}
}

// take claims pos and reports whether it was free.
func (c *claimSet) take(pos int) bool {
	if pos < 0 || pos >= c.n || c.taken[pos] {
		return false
	}
	c.taken[pos] = true
	return true
}

func (c *claimSet) free(deposits []Deposit) []Deposit {
	var out []Deposit
	for _, d := range deposits {
		if !c.taken[d.Pos] {
			out = append(out, d)
		}
	}
	return out
}

// lineFor builds the reconciliation line for a claimed deposit.
func lineFor(c Claim, d Deposit) model.ReconciliationLine {
	return model.ReconciliationLine{
		Channel:      c.Channel,
		Status:       c.Status,
		SourceAmount: c.Source,
		BankAmount:   d.Amount(),
		Gap:          c.Source.Sub(d.Amount()),
		SalesRefs:    c.SalesRefs,
		BankRefs:     []string{d.Record.ID},
		Reason:       c.Reason,
	}
}

// residual is the claim of a deposit nothing could explain.
func residual(d Deposit) Claim {
	return Claim{
		Pos:     d.Pos,
		Channel: model.ChannelUnknown,
		Status:  model.StatusUnmatched,
		Source:  decimal.Zero,
		Reason:  "no matching heuristic",
	}
}
