package pipeline

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ghostledger/ghostledger/internal/categories"
	"github.com/ghostledger/ghostledger/internal/classify"
	"github.com/ghostledger/ghostledger/internal/costlink"
	"github.com/ghostledger/ghostledger/internal/id"
	"github.com/ghostledger/ghostledger/internal/importer"
	"github.com/ghostledger/ghostledger/internal/model"
	"github.com/ghostledger/ghostledger/internal/quality"
	"github.com/ghostledger/ghostledger/internal/reconcile"
	"github.com/ghostledger/ghostledger/internal/report"
	"github.com/ghostledger/ghostledger/internal/tax"
)

// Settings is what Run needs besides the data.
type Settings struct {
	RunID      string // a new one is generated when empty
	Now        time.Time
	Business   string
	Strategy   reconcile.Strategy
	Rates      tax.Rates
	Vocabulary *categories.Service
	Overrides  *classify.Overrides
}

// Run links costs, reconciles, resolves bank categories and runs the
// quality and tax analyses. It does no I/O.
func Run(ds *Dataset, s Settings) *report.Report {
	if s.RunID == "" {
		s.RunID = id.NewRun()
	}
	if s.Strategy == nil {
		s.Strategy = reconcile.NewBankLed(reconcile.DefaultParams())
	}

	sales, stats := costlink.LinkWithStats(ds.Sales, ds.Inventory)
	result := reconcile.Run(sales, ds.Bank, s.Strategy)

	txns := make([]report.Transaction, len(ds.Bank))
	for i, b := range ds.Bank {
		_, overridden := s.Overrides.Get(b.ID)
		cat := s.Overrides.Resolve(b)
		if cat == "" {
			cat = model.Uncategorized
		}
		txns[i] = report.Transaction{BankRecord: b, Category: cat, Overridden: overridden}
	}

	var vocab quality.Vocabulary
	if s.Vocabulary != nil {
		vocab = s.Vocabulary
	}

	return &report.Report{
		RunID:          s.RunID,
		GeneratedAt:    s.Now,
		Business:       s.Business,
		Sources:        ds.Sources,
		Reconciliation: result,
		Violations:     reconcile.Verify(result, ds.Bank),
		Transactions:   txns,
		CostLink:       stats,
		Quality: quality.Check(quality.Input{
			Sales:      sales,
			Inventory:  ds.Inventory,
			Purchases:  ds.Purchases,
			Bank:       ds.Bank,
			Income:     ds.Income,
			Vocabulary: vocab,
		}),
		Tax:            s.Rates.ForSales(sales),
		Income:         ds.Income,
		StaleOverrides: s.Overrides.Stale(ds.Bank),
		Warnings:       ds.Warnings,
	}
}

// Options controls Execute.
type Options struct {
	Strategy string // overrides the configured strategy when set
	Strict   bool
	Log      logrus.FieldLogger
	Now      func() time.Time
}

// Execute runs the whole batch for the workspace: discover exports, parse
// them, and build the report.
func (w *Workspace) Execute(ctx context.Context, opts Options) (*report.Report, error) {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	strategy, err := w.Strategy(opts.Strategy)
	if err != nil {
		return nil, err
	}

	runID := id.NewRun()
	log = log.WithField("run_id", runID)

	sources, err := w.Sources(log)
	if err != nil {
		return nil, err
	}
	ds, err := Load(ctx, sources, importer.DefaultRegistry(w.Classifier), LoadOptions{Strict: opts.Strict, Log: log})
	if err != nil {
		return nil, err
	}

	rep := Run(ds, Settings{
		RunID:      runID,
		Now:        now(),
		Business:   w.Config.Business.Name,
		Strategy:   strategy,
		Rates:      w.Rates(),
		Vocabulary: w.Categories,
		Overrides:  w.Overrides,
	})

	sum := rep.Reconciliation.Summary
	log.WithFields(logrus.Fields{
		"strategy":  rep.Reconciliation.Strategy,
		"lines":     sum.Lines,
		"matched":   sum.Matched,
		"partial":   sum.Partial,
		"unmatched": sum.Unmatched,
		"health":    rep.Quality.HealthScore,
	}).Info("reconciliation complete")
	for _, v := range rep.Violations {
		log.WithField("line", v.LineID).Error(v.Error())
	}
	return rep, nil
}
