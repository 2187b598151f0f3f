// Package pipeline ties the parsers, the matching engine and the analyses
// into one batch run over a workspace.
package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/ghostledger/ghostledger/internal/categories"
	"github.com/ghostledger/ghostledger/internal/classify"
	"github.com/ghostledger/ghostledger/internal/config"
	"github.com/ghostledger/ghostledger/internal/reconcile"
	"github.com/ghostledger/ghostledger/internal/tax"
)

// ErrNoWorkspace is returned by Open when root has no ghostledger.yaml.
var ErrNoWorkspace = errors.New("not a ghostledger workspace")

// Workspace is an initialized directory with its settings loaded.
type Workspace struct {
	Root       string
	Config     *config.Config
	Categories *categories.Service
	Classifier *classify.Classifier
	Overrides  *classify.Overrides
}

// Open loads the configuration, vocabulary, rules and overrides of the
// workspace at root. Values from <root>/.env and the process environment
// override the config file.
func Open(root string) (*Workspace, error) {
	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (run ghostledger init)", ErrNoWorkspace, root)
		}
		return nil, err
	}
	if err := config.LoadEnv(filepath.Join(root, ".env")); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cats, err := categories.Load(root)
	if errors.Is(err, fs.ErrNotExist) {
		cats, err = categories.NewService(categories.Default()), nil
	}
	if err != nil {
		return nil, err
	}

	rules, err := classify.LoadRules(classify.RulesPath(root))
	if err != nil {
		return nil, err
	}
	if err := classify.ValidateRules(rules, cats); err != nil {
		return nil, fmt.Errorf("validating rules: %w", err)
	}

	overrides, err := classify.LoadOverrides(classify.OverridesPath(root))
	if err != nil {
		return nil, err
	}
	if err := overrides.Validate(cats); err != nil {
		return nil, fmt.Errorf("validating overrides: %w", err)
	}

	return &Workspace{
		Root:       root,
		Config:     cfg,
		Categories: cats,
		Classifier: classify.New(rules),
		Overrides:  overrides,
	}, nil
}

// Params returns the matching parameters configured for the workspace.
func (w *Workspace) Params() reconcile.Params {
	rc := w.Config.Reconcile
	return reconcile.Params{
		FeeTolerance:   decimal.NewFromFloat(rc.FeeTolerance),
		ExactTolerance: decimal.NewFromFloat(rc.ExactTolerance),
		LooseTolerance: decimal.NewFromFloat(rc.LooseTolerance),
		CardKeywords:   rc.CardKeywords,
		CashKeywords:   rc.CashKeywords,
	}
}

// Strategy returns the named strategy, or the configured one when name is
// empty.
func (w *Workspace) Strategy(name string) (reconcile.Strategy, error) {
	if name == "" {
		name = w.Config.Reconcile.Strategy
	}
	return reconcile.NewStrategy(name, w.Params())
}

// Rates returns the configured tax rates.
func (w *Workspace) Rates() tax.Rates {
	tc := w.Config.Tax
	return tax.Rates{
		VAT:           decimal.NewFromFloat(tc.VATRate),
		PLT:           decimal.NewFromFloat(tc.PLTRate),
		PLTCategories: tc.PLTCategories,
	}
}

// OutputDir returns the absolute output directory.
func (w *Workspace) OutputDir() string {
	return w.path(w.Config.Output.Dir)
}

func (w *Workspace) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(w.Root, p)
}
