package reconcile

import (
	"encoding/json"
	"fmt"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghostledger/ghostledger/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func deposit(id, details, in, ref string) model.BankRecord {
	return model.BankRecord{ID: id, Details: details, MoneyIn: dec(in), Reference: ref, Currency: "USD"}
}

func withdrawal(id, details, out string) model.BankRecord {
	return model.BankRecord{ID: id, Details: details, MoneyOut: dec(out), Currency: "USD"}
}

func salesRec(name, total string) model.SalesRecord {
	return model.SalesRecord{ItemName: name, Qty: dec("1"), TotalSales: dec(total)}
}

func bankLed() Strategy {
	return NewBankLed(DefaultParams())
}

func TestBankLed_CardFee(t *testing.T) {
	bank := []model.BankRecord{deposit("b1", "CARD PAYMENT SETTLEMENT", "97.00", "")}

	res := Run(nil, bank, bankLed())
	require.Len(t, res.Lines, 1)
	l := res.Lines[0]
	assert.Equal(t, model.ChannelCard, l.Channel)
	assert.Equal(t, model.StatusPartial, l.Status)
	assert.Equal(t, "100.00", l.SourceAmount.StringFixed(2))
	assert.Equal(t, "97.00", l.BankAmount.StringFixed(2))
	assert.Equal(t, "3.00", l.Gap.StringFixed(2))
	assert.Equal(t, []string{"b1"}, l.BankRefs)
	assert.Contains(t, l.Reason, "3%")
}

func TestBankLed_Reference(t *testing.T) {
	bank := []model.BankRecord{deposit("b1", "PAYMENT FROM JOHN DOE ***1234 REF# ABC123", "50.00", "ABC123")}

	res := Run(nil, bank, bankLed())
	require.Len(t, res.Lines, 1)
	l := res.Lines[0]
	assert.Equal(t, model.ChannelReference, l.Channel)
	assert.Equal(t, model.StatusMatched, l.Status)
	assert.True(t, l.SourceAmount.Equal(l.BankAmount))
	assert.True(t, l.Gap.IsZero())
}

func TestBankLed_TieBreakReferenceBeatsCard(t *testing.T) {
	bank := []model.BankRecord{
		deposit("b1", "VISA CARD CASH REF# X1", "10", "X1"),
		deposit("b2", "VISA CARD CASH", "10", ""),
		deposit("b3", "CASH DEPOSIT", "10", ""),
	}

	res := Run(nil, bank, bankLed())
	require.Len(t, res.Lines, 3)
	assert.Equal(t, model.ChannelReference, res.Lines[0].Channel)
	assert.Equal(t, model.ChannelCard, res.Lines[1].Channel)
	assert.Equal(t, model.ChannelCash, res.Lines[2].Channel)
	assert.Equal(t, model.StatusMatched, res.Lines[2].Status)
	assert.True(t, res.Lines[2].Gap.IsZero())
}

func TestBankLed_Residual(t *testing.T) {
	bank := []model.BankRecord{deposit("b1", "FUNDS RECEIVED FROM ACME (123)", "250.00", "")}

	res := Run(nil, bank, bankLed())
	require.Len(t, res.Lines, 1)
	l := res.Lines[0]
	assert.Equal(t, model.ChannelUnknown, l.Channel)
	assert.Equal(t, model.StatusUnmatched, l.Status)
	assert.True(t, l.SourceAmount.IsZero())
	assert.Equal(t, "-250", l.Gap.String())
	assert.Equal(t, "250", res.Summary.TotalUnmatched.String())
}

func TestBankLed_IgnoresWithdrawals(t *testing.T) {
	bank := []model.BankRecord{
		withdrawal("w1", "CARD PURCHASE", "20"),
		deposit("b1", "CASH", "5", ""),
	}
	res := Run(nil, bank, bankLed())
	require.Len(t, res.Lines, 1)
	assert.Equal(t, []string{"b1"}, res.Lines[0].BankRefs)
}

func TestRun_NumbersLines(t *testing.T) {
	bank := []model.BankRecord{deposit("b1", "CASH", "1", ""), deposit("b2", "CASH", "2", "")}
	res := Run(nil, bank, bankLed())
	require.Len(t, res.Lines, 2)
	assert.Equal(t, "rec-0001", res.Lines[0].ID)
	assert.Equal(t, "rec-0002", res.Lines[1].ID)
	assert.Equal(t, StrategyBankLed, res.Strategy)
}

func TestRun_Empty(t *testing.T) {
	res := Run(nil, nil, bankLed())
	assert.Empty(t, res.Lines)
	assert.True(t, res.Summary.MatchRate.IsZero())
	assert.Empty(t, Verify(res, nil))
}

// greedyMatcher claims every deposit it sees, twice.
type greedyMatcher struct{ ch model.Channel }

func (g greedyMatcher) Name() string { return "greedy" }

func (g greedyMatcher) Match(remaining []Deposit) []Claim {
	var out []Claim
	for _, d := range remaining {
		c := Claim{Pos: d.Pos, Channel: g.ch, Status: model.StatusMatched, Source: d.Amount()}
		out = append(out, c, c)
	}
	// Out of range claims are ignored as well.
	return append(out, Claim{Pos: 99, Channel: g.ch})
}

func TestBankLed_ClaimSetRejectsDoubleClaims(t *testing.T) {
	s := BankLed{Matchers: []Matcher{
		ReferenceMatcher{},
		greedyMatcher{ch: model.ChannelCash},
		greedyMatcher{ch: model.ChannelCard},
	}}
	bank := []model.BankRecord{
		deposit("b1", "x", "1", "R1"),
		deposit("b2", "y", "2", ""),
	}

	res := Run(nil, bank, s)
	require.Len(t, res.Lines, 2)
	assert.Equal(t, model.ChannelReference, res.Lines[0].Channel)
	assert.Equal(t, model.ChannelCash, res.Lines[1].Channel)
	assert.Empty(t, Verify(res, bank))
}

func TestBankLed_ChainWithoutResidual(t *testing.T) {
	s := BankLed{Matchers: []Matcher{ReferenceMatcher{}}}
	bank := []model.BankRecord{deposit("b1", "x", "1", ""), deposit("b2", "y", "2", "R")}

	res := Run(nil, bank, s)
	require.Len(t, res.Lines, 2)
	assert.Equal(t, model.StatusUnmatched, res.Lines[0].Status)
	assert.Equal(t, model.StatusMatched, res.Lines[1].Status)
}

// fixtureBank builds a mixed ledger with repeated amounts.
func fixtureBank(n int) []model.BankRecord {
	kinds := []string{"PPC CARD SETTLEMENT", "CASH DEPOSIT", "TRANSFER", "VISA", "REF# "}
	var out []model.BankRecord
	for i := 0; i < n; i++ {
		k := kinds[i%len(kinds)]
		ref := ""
		if k == "REF# " {
			ref = fmt.Sprintf("R%d", i)
			k += ref
		}
		amt := decimal.NewFromInt(int64(10 + (i*7)%23)).Add(decimal.New(int64(i%100), -2))
		out = append(out, model.BankRecord{ID: fmt.Sprintf("b%03d", i), Details: k, MoneyIn: amt, Reference: ref})
		if i%4 == 0 {
			out = append(out, withdrawal(fmt.Sprintf("w%03d", i), "RENT", "3"))
		}
	}
	return out
}

func fixtureSales(n int) []model.SalesRecord {
	var out []model.SalesRecord
	for i := 0; i < n; i++ {
		amt := decimal.NewFromInt(int64(10 + (i*7)%23)).Add(decimal.New(int64(i%100), -2))
		if i%3 == 0 {
			amt = amt.Add(dec("0.3"))
		}
		out = append(out, model.SalesRecord{ItemName: fmt.Sprintf("item %d", i), Qty: dec("1"), TotalSales: amt})
	}
	return out
}

func amounts(lines []model.ReconciliationLine) []string {
	var out []string
	for _, l := range lines {
		if len(l.BankRefs) > 0 {
			out = append(out, l.BankAmount.String())
		}
	}
	sort.Strings(out)
	return out
}

func depositAmounts(bank []model.BankRecord) []string {
	var out []string
	for _, b := range model.Deposits(bank) {
		out = append(out, b.MoneyIn.String())
	}
	sort.Strings(out)
	return out
}

func TestSingleConsumption(t *testing.T) {
	bank := fixtureBank(40)
	sales := fixtureSales(30)

	for _, name := range []string{StrategyBankLed, StrategySalesLed} {
		t.Run(name, func(t *testing.T) {
			s, err := NewStrategy(name, DefaultParams())
			require.NoError(t, err)

			res := Run(sales, bank, s)
			assert.Equal(t, depositAmounts(bank), amounts(res.Lines))
			assert.Empty(t, Verify(res, bank))

			seen := map[string]bool{}
			for _, l := range res.Lines {
				for _, ref := range l.BankRefs {
					assert.False(t, seen[ref], "deposit %s claimed twice", ref)
					seen[ref] = true
				}
			}
			assert.Len(t, seen, len(model.Deposits(bank)))
		})
	}
}

func TestDeterminism(t *testing.T) {
	bank := fixtureBank(25)
	sales := fixtureSales(25)

	for _, name := range []string{StrategyBankLed, StrategySalesLed} {
		s, err := NewStrategy(name, DefaultParams())
		require.NoError(t, err)

		a, err := json.Marshal(Run(sales, bank, s))
		require.NoError(t, err)
		b, err := json.Marshal(Run(sales, bank, s))
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b), name)
	}
}

func TestSummary(t *testing.T) {
	bank := []model.BankRecord{
		deposit("b1", "REF# A", "50", "A"),
		deposit("b2", "CARD", "97", ""),
		deposit("b3", "CASH", "20", ""),
		deposit("b4", "MYSTERY", "33", ""),
	}
	sales := []model.SalesRecord{salesRec("a", "120"), salesRec("b", "85")}

	sum := Run(sales, bank, bankLed()).Summary
	assert.Equal(t, 4, sum.Lines)
	assert.Equal(t, 2, sum.Matched)
	assert.Equal(t, 1, sum.Partial)
	assert.Equal(t, 1, sum.Unmatched)
	assert.Equal(t, "167", sum.TotalVerified.String())
	assert.Equal(t, "33", sum.TotalUnmatched.String())
	assert.Equal(t, "3", sum.TotalFees.String())
	assert.Equal(t, "0.5", sum.MatchRate.String())
	assert.Equal(t, "205", sum.SalesTotal.String())
	assert.Equal(t, "200", sum.DepositTotal.String())
	assert.Equal(t, "5", sum.Discrepancy.String())
}

func TestNewStrategy(t *testing.T) {
	s, err := NewStrategy("", DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, StrategyBankLed, s.Name())

	s, err = NewStrategy("Sales-Led", DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, StrategySalesLed, s.Name())

	_, err = NewStrategy("fifo", DefaultParams())
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestNewStrategy_RejectsFeeOutOfRange(t *testing.T) {
	for _, fee := range []string{"1", "1.5", "-0.01"} {
		p := DefaultParams()
		p.FeeTolerance = dec(fee)
		for _, name := range []string{StrategyBankLed, StrategySalesLed} {
			_, err := NewStrategy(name, p)
			assert.ErrorIs(t, err, ErrInvalidParams, "fee %s, %s", fee, name)
		}
	}

	p := DefaultParams()
	p.FeeTolerance = dec("0")
	_, err := NewStrategy(StrategyBankLed, p)
	assert.NoError(t, err)

	p = DefaultParams()
	p.LooseTolerance = dec("-0.5")
	_, err = NewStrategy(StrategySalesLed, p)
	assert.ErrorIs(t, err, ErrInvalidParams)
}
