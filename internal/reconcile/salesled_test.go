package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghostledger/ghostledger/internal/model"
)

func salesLed() Strategy {
	return SalesLed{Params: DefaultParams()}
}

func TestSalesLed_MatchOrder(t *testing.T) {
	sales := []model.SalesRecord{
		salesRec("burger", "100.00"), // card deposit 97.50 within 3%
		salesRec("pizza", "40.00"),   // exact with reference
		salesRec("salad", "12.00"),   // loose, cash
		salesRec("wine", "80.00"),    // nothing close enough
		salesRec("refund", "0"),      // never matched
	}
	bank := []model.BankRecord{
		deposit("b1", "PPC CARD SETTLEMENT", "97.50", ""),
		deposit("b2", "QR PAYMENT REF# Q9", "40.00", "Q9"),
		deposit("b3", "CASH DEPOSIT", "12.30", ""),
		deposit("b4", "TRANSFER", "500.00", ""),
	}

	res := Run(sales, bank, salesLed())
	require.Len(t, res.Lines, 6)

	card := res.Lines[0]
	assert.Equal(t, model.ChannelCard, card.Channel)
	assert.Equal(t, model.StatusPartial, card.Status)
	assert.Equal(t, []int{0}, card.SalesRefs)
	assert.Equal(t, []string{"b1"}, card.BankRefs)
	assert.Equal(t, "2.5", card.Gap.String())

	ref := res.Lines[1]
	assert.Equal(t, model.ChannelReference, ref.Channel)
	assert.Equal(t, model.StatusMatched, ref.Status)
	assert.Equal(t, []string{"b2"}, ref.BankRefs)

	cash := res.Lines[2]
	assert.Equal(t, model.ChannelCash, cash.Channel)
	assert.Equal(t, model.StatusMatched, cash.Status)
	assert.Equal(t, "-0.3", cash.Gap.String())

	for _, i := range []int{3, 4} {
		l := res.Lines[i]
		assert.Equal(t, model.StatusUnmatched, l.Status)
		assert.Empty(t, l.BankRefs)
		assert.Equal(t, []int{i}, l.SalesRefs)
		assert.True(t, l.BankAmount.IsZero())
	}

	leftover := res.Lines[5]
	assert.Equal(t, model.StatusUnmatched, leftover.Status)
	assert.Equal(t, []string{"b4"}, leftover.BankRefs)
	assert.Empty(t, leftover.SalesRefs)

	assert.Empty(t, Verify(res, bank))
}

func TestSalesLed_ExactNeedsReference(t *testing.T) {
	sales := []model.SalesRecord{salesRec("a", "25.00")}
	bank := []model.BankRecord{
		deposit("b1", "TRANSFER", "25.00", ""),
		deposit("b2", "TRANSFER REF# Z", "25.00", "Z"),
	}

	res := Run(sales, bank, salesLed())
	require.Len(t, res.Lines, 2)
	assert.Equal(t, []string{"b2"}, res.Lines[0].BankRefs)
	assert.Equal(t, model.ChannelReference, res.Lines[0].Channel)
}

func TestSalesLed_LooseMatchUnknownChannel(t *testing.T) {
	sales := []model.SalesRecord{salesRec("a", "25.00")}
	bank := []model.BankRecord{deposit("b1", "TRANSFER", "25.40", "")}

	res := Run(sales, bank, salesLed())
	require.Len(t, res.Lines, 1)
	assert.Equal(t, model.ChannelUnknown, res.Lines[0].Channel)
	assert.Equal(t, model.StatusMatched, res.Lines[0].Status)
}

func TestSalesLed_CardRatioBand(t *testing.T) {
	sales := []model.SalesRecord{salesRec("a", "100"), salesRec("b", "100")}
	bank := []model.BankRecord{
		deposit("b1", "VISA", "101", ""), // ratio > 1
		deposit("b2", "VISA", "96", ""),  // ratio < 0.97
		deposit("b3", "VISA", "97", ""),  // on the floor
	}

	res := Run(sales, bank, salesLed())
	assert.Equal(t, []string{"b3"}, res.Lines[0].BankRefs)
	assert.Equal(t, model.StatusUnmatched, res.Lines[1].Status)
	assert.Empty(t, Verify(res, bank))
}

func TestSalesLed_DepositUsedOnce(t *testing.T) {
	sales := []model.SalesRecord{salesRec("a", "10"), salesRec("b", "10")}
	bank := []model.BankRecord{deposit("b1", "CASH", "10", "")}

	res := Run(sales, bank, salesLed())
	require.Len(t, res.Lines, 2)
	assert.Equal(t, model.StatusMatched, res.Lines[0].Status)
	assert.Equal(t, model.StatusUnmatched, res.Lines[1].Status)
}
