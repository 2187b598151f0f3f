package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghostledger/ghostledger/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCompute(t *testing.T) {
	r := DefaultRates()

	b := r.Compute(dec("100"), true, true)
	assert.Equal(t, "10.00", b.VAT.StringFixed(2))
	assert.Equal(t, "3.00", b.PLT.StringFixed(2))
	assert.Equal(t, "13.00", b.Total.StringFixed(2))
	assert.Equal(t, "113.00", b.GrandTotal.StringFixed(2))

	b = r.Compute(dec("12.345"), true, false)
	assert.Equal(t, "1.23", b.VAT.String())
	assert.True(t, b.PLT.IsZero())

	b = r.Compute(dec("50"), false, false)
	assert.True(t, b.Total.IsZero())
	assert.Equal(t, "50", b.GrandTotal.String())
}

func TestPLTApplies(t *testing.T) {
	r := DefaultRates()
	assert.True(t, r.PLTApplies("Liquor"))
	assert.True(t, r.PLTApplies("Tobacco"))
	assert.False(t, r.PLTApplies("Food"))
	assert.False(t, r.PLTApplies("liquor"))
}

func TestForSales(t *testing.T) {
	sales := []model.SalesRecord{
		{Category: "Food", TotalSales: dec("20")},
		{Category: "Liquor", TotalSales: dec("10")},
		{Category: "Food", TotalSales: dec("5.55")},
	}

	est := DefaultRates().ForSales(sales)
	require.Len(t, est.Categories, 2)
	assert.Equal(t, "Food", est.Categories[0].Category)
	assert.Equal(t, "2.56", est.Categories[0].VAT.String()) // 2.00 + 0.56
	assert.True(t, est.Categories[0].PLT.IsZero())
	assert.Equal(t, "Liquor", est.Categories[1].Category)
	assert.Equal(t, "0.3", est.Categories[1].PLT.String())

	assert.Equal(t, "35.55", est.Total.Base.String())
	assert.Equal(t, "3.56", est.Total.VAT.String())
	assert.Equal(t, "3.86", est.Total.Total.String())
	assert.Equal(t, "39.41", est.Total.GrandTotal.String())
}

func TestForSales_Empty(t *testing.T) {
	est := DefaultRates().ForSales(nil)
	assert.Empty(t, est.Categories)
	assert.True(t, est.Total.GrandTotal.IsZero())
}
