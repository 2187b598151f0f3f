package reconcile

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ghostledger/ghostledger/internal/model"
)

// Matcher explains some of the deposits it is given. It only sees deposits
// no earlier matcher claimed and returns one claim per deposit it explains.
type Matcher interface {
	Name() string
	Match(remaining []Deposit) []Claim
}

// ReferenceMatcher claims deposits carrying a bank reference. A reference is
// taken as proof of POS origin, so the deposit settles itself.
type ReferenceMatcher struct{}

func (ReferenceMatcher) Name() string { return "reference" }

func (ReferenceMatcher) Match(remaining []Deposit) []Claim {
	var claims []Claim
	for _, d := range remaining {
		if d.Record.Reference == "" {
			continue
		}
		claims = append(claims, Claim{
			Pos:     d.Pos,
			Channel: model.ChannelReference,
			Status:  model.StatusMatched,
			Source:  d.Amount(),
			Reason:  "reference " + d.Record.Reference,
		})
	}
	return claims
}

// CardFeeMatcher claims card settlements. The processor keeps Fee before
// depositing, so the POS amount is recovered as bank / (1 - Fee) and the
// difference reported as the gap.
type CardFeeMatcher struct {
	Fee      decimal.Decimal
	Keywords []string
}

func (CardFeeMatcher) Name() string { return "card" }

func (m CardFeeMatcher) Match(remaining []Deposit) []Claim {
	keep := decimal.NewFromInt(1).Sub(m.Fee)
	var claims []Claim
	for _, d := range remaining {
		if !containsAny(d.Record.Details, m.Keywords) {
			continue
		}
		implied := d.Amount().Div(keep).Round(2)
		claims = append(claims, Claim{
			Pos:     d.Pos,
			Channel: model.ChannelCard,
			Status:  model.StatusPartial,
			Source:  implied,
			Reason:  fmt.Sprintf("card settlement, implied POS %s at %s fee", implied.StringFixed(2), percent(m.Fee)),
		})
	}
	return claims
}

// CashMatcher claims cash deposits at face value.
type CashMatcher struct {
	Keywords []string
}

func (CashMatcher) Name() string { return "cash" }

func (m CashMatcher) Match(remaining []Deposit) []Claim {
	var claims []Claim
	for _, d := range remaining {
		if !containsAny(d.Record.Details, m.Keywords) {
			continue
		}
		claims = append(claims, Claim{
			Pos:     d.Pos,
			Channel: model.ChannelCash,
			Status:  model.StatusMatched,
			Source:  d.Amount(),
			Reason:  "cash deposit",
		})
	}
	return claims
}

// ResidualMatcher claims everything left as unexplained.
type ResidualMatcher struct{}

func (ResidualMatcher) Name() string { return "residual" }

func (ResidualMatcher) Match(remaining []Deposit) []Claim {
	claims := make([]Claim, 0, len(remaining))
	for _, d := range remaining {
		claims = append(claims, residual(d))
	}
	return claims
}
