package categories

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghostledger/ghostledger/internal/model"
)

func TestDefault(t *testing.T) {
	cats := Default()
	assert.Len(t, cats, 44)
	assert.Equal(t, "Sales Revenue", cats[0].Name)
	assert.Equal(t, model.Uncategorized, cats[len(cats)-1].Name)

	seen := map[string]bool{}
	for _, c := range cats {
		assert.False(t, seen[c.Name], "duplicate category %q", c.Name)
		seen[c.Name] = true
	}
}

func TestGetExists(t *testing.T) {
	svc := NewService(Default())

	c, ok := svc.Get("Rental Expense")
	assert.True(t, ok)
	assert.Equal(t, model.CategoryExpense, c.Type)

	_, ok = svc.Get("rental expense")
	assert.False(t, ok, "Get is exact")

	assert.True(t, svc.Exists("Payroll-Overtime"))
	assert.False(t, svc.Exists("Bitcoin"))
}

func TestByType(t *testing.T) {
	svc := NewService(Default())

	assert.Len(t, svc.ByType(model.CategoryRevenue), 1)
	assert.Len(t, svc.ByType(model.CategoryExpense), 40)
	transfers := svc.ByType(model.CategoryTransfer)
	require.Len(t, transfers, 1)
	assert.Equal(t, "Bank Transfer", transfers[0].Name)
}

func TestMatch(t *testing.T) {
	svc := NewService(Default())

	tests := []struct {
		label string
		want  string
		ok    bool
	}{
		{"Rental Expense", "Rental Expense", true},
		{"rental   expense", "Rental Expense", true},
		{"Kitchen- Miscellaneous expense", "Kitchen - Miscellaneous expense", true},
		{"Gas expense for Dec", "Gas expense", true},
		{"Payroll", "Payroll Expense", true},
		{"", "", false},
		{"xyz123", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := svc.Match(tt.label)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "kitchen expense bsb", Normalize("  Kitchen expense - BSB "))
	assert.Equal(t, "payroll overtime", Normalize("Payroll-Overtime"))
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(Default())
	require.NoError(t, svc.Save(dir))

	_, err := os.Stat(filepath.Join(dir, "categories", "categories.csv"))
	require.NoError(t, err)

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, svc.All(), loaded.All())
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}
