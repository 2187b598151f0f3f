package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ghostledger/ghostledger/internal/model"
)

// Strategy names.
const (
	StrategyBankLed  = "bank-led"
	StrategySalesLed = "sales-led"
)

// ErrUnknownStrategy is returned by NewStrategy for an unsupported name.
var ErrUnknownStrategy = errors.New("unknown reconciliation strategy")

// Strategy turns sales and deposits into reconciliation lines. Lines come
// back without IDs; Run numbers them.
type Strategy interface {
	Name() string
	Reconcile(sales []model.SalesRecord, deposits []Deposit) []model.ReconciliationLine
}

// NewStrategy returns the strategy called name. Params are validated first.
func NewStrategy(name string, p Params) (Strategy, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	switch strings.ToLower(name) {
	case "", StrategyBankLed:
		return NewBankLed(p), nil
	case StrategySalesLed:
		return SalesLed{Params: p}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// BankLed walks deposits through an ordered matcher chain. Earlier matchers
// win: a deposit with a reference and card wording is a reference match.
type BankLed struct {
	Matchers []Matcher
}

// NewBankLed returns the standard chain: reference, card fee, cash,
// residual.
func NewBankLed(p Params) BankLed {
	return BankLed{Matchers: []Matcher{
		ReferenceMatcher{},
		CardFeeMatcher{Fee: p.FeeTolerance, Keywords: p.CardKeywords},
		CashMatcher{Keywords: p.CashKeywords},
		ResidualMatcher{},
	}}
}

func (BankLed) Name() string { return StrategyBankLed }

// Reconcile returns one line per deposit, in deposit order. Sales are not
// consulted. Claims for deposits already taken are dropped, and deposits no
// matcher claims become residual lines.
func (b BankLed) Reconcile(_ []model.SalesRecord, deposits []Deposit) []model.ReconciliationLine {
	set := newClaimSet(len(deposits))
	claims := make([]*Claim, len(deposits))

	for _, m := range b.Matchers {
		remaining := set.free(deposits)
		if len(remaining) == 0 {
			break
		}
		for _, c := range m.Match(remaining) {
			c := c
			if !set.take(c.Pos) {
				continue
			}
			claims[c.Pos] = &c
		}
	}

	lines := make([]model.ReconciliationLine, 0, len(deposits))
	for _, d := range deposits {
		c := claims[d.Pos]
		if c == nil {
			r := residual(d)
			c = &r
		}
		lines = append(lines, lineFor(*c, d))
	}
	return lines
}

// SalesLed walks sales in order and looks for the first unclaimed deposit
// that settles each one: a reference-backed exact amount, then a card
// deposit within the fee band, then any amount within the loose tolerance.
type SalesLed struct {
	Params Params
}

func (SalesLed) Name() string { return StrategySalesLed }

// Reconcile returns one line per sale, in sales order, followed by a
// residual line for every deposit no sale claimed.
func (s SalesLed) Reconcile(sales []model.SalesRecord, deposits []Deposit) []model.ReconciliationLine {
	set := newClaimSet(len(deposits))
	lines := make([]model.ReconciliationLine, 0, len(sales)+len(deposits))

	for i, sale := range sales {
		c, d, ok := s.match(sale, deposits, set)
		if !ok {
			lines = append(lines, model.ReconciliationLine{
				Channel:      model.ChannelUnknown,
				Status:       model.StatusUnmatched,
				SourceAmount: sale.TotalSales,
				BankAmount:   decimal.Zero,
				Gap:          sale.TotalSales,
				SalesRefs:    []int{i},
				Reason:       "no deposit for sale " + sale.ItemName,
			})
			continue
		}
		set.take(d.Pos)
		c.SalesRefs = []int{i}
		lines = append(lines, lineFor(c, d))
	}

	for _, d := range set.free(deposits) {
		lines = append(lines, lineFor(residual(d), d))
	}
	return lines
}

func (s SalesLed) match(sale model.SalesRecord, deposits []Deposit, set *claimSet) (Claim, Deposit, bool) {
	total := sale.TotalSales
	if !total.IsPositive() {
		return Claim{}, Deposit{}, false
	}
	free := set.free(deposits)

	for _, d := range free {
		if d.Record.Reference != "" && d.Amount().Sub(total).Abs().LessThan(s.Params.ExactTolerance) {
			return Claim{
				Pos:     d.Pos,
				Channel: model.ChannelReference,
				Status:  model.StatusMatched,
				Source:  total,
				Reason:  "exact amount, reference " + d.Record.Reference,
			}, d, true
		}
	}

	floor := decimal.NewFromInt(1).Sub(s.Params.FeeTolerance)
	one := decimal.NewFromInt(1)
	for _, d := range free {
		if !containsAny(d.Record.Details, s.Params.CardKeywords) {
			continue
		}
		ratio := d.Amount().Div(total)
		if ratio.GreaterThanOrEqual(floor) && ratio.LessThanOrEqual(one) {
			return Claim{
				Pos:     d.Pos,
				Channel: model.ChannelCard,
				Status:  model.StatusPartial,
				Source:  total,
				Reason:  fmt.Sprintf("card settlement within %s fee", percent(s.Params.FeeTolerance)),
			}, d, true
		}
	}

	for _, d := range free {
		if d.Amount().Sub(total).Abs().LessThan(s.Params.LooseTolerance) {
			ch := model.ChannelUnknown
			if containsAny(d.Record.Details, s.Params.CashKeywords) {
				ch = model.ChannelCash
			}
			return Claim{
				Pos:     d.Pos,
				Channel: ch,
				Status:  model.StatusMatched,
				Source:  total,
				Reason:  fmt.Sprintf("amount within %s", s.Params.LooseTolerance.StringFixed(2)),
			}, d, true
		}
	}
	return Claim{}, Deposit{}, false
}
