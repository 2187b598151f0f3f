package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSalesRecord_NeedsCost(t *testing.T) {
	tests := []struct {
		qty, cost string
		want      bool
	}{
		{"2", "0", true},
		{"2", "1.5", false},
		{"0", "0", false},
		{"-1", "0", false},
	}
	for _, tt := range tests {
		r := SalesRecord{Qty: dec(tt.qty), Cost: dec(tt.cost)}
		assert.Equal(t, tt.want, r.NeedsCost(), "qty=%s cost=%s", tt.qty, tt.cost)
	}
}

func TestSalesRecord_Profit(t *testing.T) {
	r := SalesRecord{TotalSales: dec("25"), Cost: dec("7.5")}
	assert.Equal(t, "17.5", r.Profit().String())
}

func TestDeposits(t *testing.T) {
	records := []BankRecord{
		{ID: "a", MoneyIn: dec("10")},
		{ID: "b", MoneyOut: dec("4")},
		{ID: "c", MoneyIn: dec("0")},
		{ID: "d", MoneyIn: dec("0.01")},
	}
	got := Deposits(records)
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "d", got[1].ID)
}

func TestIncomeStatement_ExpenseSum(t *testing.T) {
	s := IncomeStatement{Expenses: []IncomeLine{{Amount: dec("100")}, {Amount: dec("20.5")}}}
	assert.Equal(t, "120.5", s.ExpenseSum().String())
	assert.True(t, IncomeStatement{}.ExpenseSum().IsZero())
}

func TestInventoryRecord_Shrinkage(t *testing.T) {
	assert.True(t, InventoryRecord{Diff: dec("-2")}.Shrinkage())
	assert.False(t, InventoryRecord{Diff: dec("0")}.Shrinkage())
}
