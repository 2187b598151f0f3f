package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghostledger/ghostledger/internal/classify"
	"github.com/ghostledger/ghostledger/internal/config"
	"github.com/ghostledger/ghostledger/internal/id"
	"github.com/ghostledger/ghostledger/internal/importer"
	"github.com/ghostledger/ghostledger/internal/logging"
	"github.com/ghostledger/ghostledger/internal/model"
	"github.com/ghostledger/ghostledger/internal/reconcile"
)

var fixedNow = time.Date(2025, 12, 31, 18, 0, 0, 0, time.UTC)

func copyFixture(t *testing.T, name, dst string) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", name))
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))
	require.NoError(t, os.WriteFile(dst, data, 0o644))
}

// newWorkspace creates a workspace with every fixture export in import/.
func newWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, config.Save(filepath.Join(root, config.FileName), config.Default("Back Street Bar")))
	for _, name := range []string{"sales.csv", "bank.csv", "inventory.tsv", "income.csv", "purchases.csv"} {
		copyFixture(t, name, filepath.Join(root, "import", name))
	}
	return root
}

func TestOpen_NoWorkspace(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.ErrorIs(t, err, ErrNoWorkspace)
}

func TestOpen_Defaults(t *testing.T) {
	ws, err := Open(newWorkspace(t))
	require.NoError(t, err)

	assert.True(t, ws.Categories.Exists("Rental Expense"))
	assert.Equal(t, "0.03", ws.Params().FeeTolerance.String())
	assert.Equal(t, "0.1", ws.Rates().VAT.String())
	assert.Equal(t, 0, ws.Overrides.Len())

	s, err := ws.Strategy("")
	require.NoError(t, err)
	assert.Equal(t, reconcile.StrategyBankLed, s.Name())

	_, err = ws.Strategy("fifo")
	assert.ErrorIs(t, err, reconcile.ErrUnknownStrategy)
}

func TestOpen_InvalidRules(t *testing.T) {
	root := newWorkspace(t)
	rules := []classify.Rule{{Category: "Yacht fund", Keywords: []string{"boat"}}}
	require.NoError(t, classify.SaveRules(classify.RulesPath(root), rules))

	_, err := Open(root)
	assert.ErrorContains(t, err, `unknown category "Yacht fund"`)
}

func TestOpen_InvalidOverrides(t *testing.T) {
	root := newWorkspace(t)
	ov := classify.NewOverrides()
	ov.Set("bnk-1a2b3c4d", "Yacht fund")
	require.NoError(t, ov.Save(classify.OverridesPath(root)))

	_, err := Open(root)
	assert.ErrorContains(t, err, "validating overrides")
	assert.ErrorContains(t, err, `unknown category "Yacht fund"`)
}

func TestOpen_EnvOverride(t *testing.T) {
	root := newWorkspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("GHOSTLEDGER_STRATEGY=sales-led\n"), 0o644))
	t.Setenv(config.EnvStrategy, "")
	require.NoError(t, os.Unsetenv(config.EnvStrategy))

	ws, err := Open(root)
	require.NoError(t, err)
	assert.Equal(t, reconcile.StrategySalesLed, ws.Config.Reconcile.Strategy)
}

func TestSources_DiscoveryAndPinning(t *testing.T) {
	root := newWorkspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "import", "notes.csv"), []byte("x"), 0o644))
	copyFixture(t, "inventory.csv", filepath.Join(root, "pinned", "stock.csv"))

	ws, err := Open(root)
	require.NoError(t, err)
	ws.Config.Inputs.Inventory = []string{filepath.Join("pinned", "stock.csv")}

	sources, err := ws.Sources(logging.Discard())
	require.NoError(t, err)
	require.Len(t, sources, 5)

	var kinds []importer.Kind
	for _, s := range sources {
		kinds = append(kinds, s.Kind)
	}
	assert.Equal(t, importer.Kinds, kinds)
	assert.Equal(t, filepath.Join(root, "pinned", "stock.csv"), sources[2].Path)
}

func TestLoad_MergesAndRenumbersBankIDs(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "bank-nov.csv")
	b := filepath.Join(dir, "bank-dec.csv")
	copyFixture(t, "bank.csv", a)
	copyFixture(t, "bank.csv", b)

	sources := []Source{{Kind: importer.KindBank, Path: a}, {Kind: importer.KindBank, Path: b}}
	ds, err := Load(context.Background(), sources, importer.DefaultRegistry(nil), LoadOptions{Log: logging.Discard()})
	require.NoError(t, err)
	require.Len(t, ds.Bank, 10)
	require.Len(t, ds.Sources, 2)
	assert.Equal(t, 5, ds.Sources[1].Records)

	seen := map[string]bool{}
	for _, r := range ds.Bank {
		assert.False(t, seen[r.ID], "duplicate ID %s", r.ID)
		seen[r.ID] = true
	}
	// The first file keeps the IDs a standalone parse gives.
	assert.Equal(t, ds.Bank[2].ID+".b", ds.Bank[3].ID)
	assert.Equal(t, ds.Bank[0].ID+".b", ds.Bank[5].ID)
	assert.Equal(t, id.Base(ds.Bank[2].ID), id.Base(ds.Bank[8].ID))
}

func TestLoad_MissingFile(t *testing.T) {
	sources := []Source{{Kind: importer.KindBank, Path: filepath.Join(t.TempDir(), "gone.csv")}}
	_, err := Load(context.Background(), sources, importer.DefaultRegistry(nil), LoadOptions{Log: logging.Discard()})
	assert.ErrorContains(t, err, "opening bank export")
}

func TestLoad_UnknownKind(t *testing.T) {
	sources := []Source{{Kind: "payroll", Path: "x.csv"}}
	_, err := Load(context.Background(), sources, importer.NewRegistry(), LoadOptions{Log: logging.Discard()})
	assert.ErrorIs(t, err, importer.ErrUnknownKind)
}

func TestLoad_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sources := []Source{{Kind: importer.KindSales, Path: "unused.csv"}}
	_, err := Load(ctx, sources, importer.DefaultRegistry(nil), LoadOptions{Log: logging.Discard()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoad_StrictWarnings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte("Category,Item Name,Qty,Price,Discount,Bill Discount,Cost,Total Sales\nFood,Soup,x,5,0,0,1,5\n"), 0o644))

	ds, err := Load(context.Background(), []Source{{Kind: importer.KindSales, Path: path}}, importer.DefaultRegistry(nil), LoadOptions{Strict: true, Log: logging.Discard()})
	require.NoError(t, err)
	require.Len(t, ds.Warnings, 1)
	assert.Equal(t, "sales.csv", ds.Warnings[0].File)
	assert.Equal(t, "qty", ds.Warnings[0].Field)
}

func TestExecute_EndToEnd(t *testing.T) {
	ws, err := Open(newWorkspace(t))
	require.NoError(t, err)

	rep, err := ws.Execute(context.Background(), Options{Log: logging.Discard(), Now: func() time.Time { return fixedNow }})
	require.NoError(t, err)

	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, fixedNow, rep.GeneratedAt)
	assert.Equal(t, "Back Street Bar", rep.Business)
	require.Len(t, rep.Sources, 5)

	sum := rep.Reconciliation.Summary
	assert.Equal(t, reconcile.StrategyBankLed, rep.Reconciliation.Strategy)
	assert.Equal(t, 3, sum.Lines, "one line per deposit")
	assert.Equal(t, 1, sum.Matched)
	assert.Equal(t, 1, sum.Partial)
	assert.Equal(t, 1, sum.Unmatched)
	assert.Empty(t, rep.Violations)

	card := rep.Reconciliation.Lines[1]
	assert.Equal(t, model.ChannelCard, card.Channel)
	assert.Equal(t, "100.00", card.SourceAmount.StringFixed(2))
	assert.Equal(t, "3.00", card.Gap.StringFixed(2))

	assert.Equal(t, 2, rep.CostLink.Missing)
	assert.Equal(t, 1, rep.CostLink.Linked)
	assert.Equal(t, 1, rep.CostLink.Unresolved)

	require.Len(t, rep.Transactions, 5)
	assert.Equal(t, model.Uncategorized, rep.Transactions[0].Category)
	assert.Equal(t, "Sales Revenue", rep.Transactions[1].Category)
	assert.Equal(t, "Rental Expense", rep.Transactions[2].Category)

	require.NotNil(t, rep.Income)
	assert.Equal(t, "45000", rep.Income.Revenue.String())
	assert.Equal(t, "600", rep.Tax.Total.VAT.String())
}

func TestExecute_SalesLed(t *testing.T) {
	ws, err := Open(newWorkspace(t))
	require.NoError(t, err)

	rep, err := ws.Execute(context.Background(), Options{Strategy: "sales-led", Log: logging.Discard()})
	require.NoError(t, err)
	assert.Equal(t, reconcile.StrategySalesLed, rep.Reconciliation.Strategy)
	assert.Empty(t, rep.Violations)
}

func TestRun_Overrides(t *testing.T) {
	bank := []model.BankRecord{
		{ID: "bnk-00000001", Details: "MYSTERY", MoneyIn: dec("10")},
		{ID: "bnk-00000002", Details: "LANDLORD", Destination: "Rental Expense"},
	}
	ov := classify.NewOverrides()
	ov.Set("bnk-00000001", "Owner Distribution")
	ov.Set("bnk-ffffffff", "Bank Transfer")

	rep := Run(&Dataset{Bank: bank}, Settings{Overrides: ov})
	require.Len(t, rep.Transactions, 2)
	assert.Equal(t, "Owner Distribution", rep.Transactions[0].Category)
	assert.True(t, rep.Transactions[0].Overridden)
	assert.Equal(t, "Rental Expense", rep.Transactions[1].Category)
	assert.False(t, rep.Transactions[1].Overridden)
	assert.Equal(t, []string{"bnk-ffffffff"}, rep.StaleOverrides)
	assert.Equal(t, reconcile.StrategyBankLed, rep.Reconciliation.Strategy)
	assert.NotEmpty(t, rep.RunID)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
