package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ghostledger/ghostledger/internal/config"
	"github.com/ghostledger/ghostledger/internal/id"
	"github.com/ghostledger/ghostledger/internal/importer"
	"github.com/ghostledger/ghostledger/internal/model"
	"github.com/ghostledger/ghostledger/internal/report"
)

// maxParallel bounds how many exports are parsed at once.
const maxParallel = 4

// Source is one export file to parse.
type Source struct {
	Kind importer.Kind
	Path string
}

// Dataset is the merged content of every parsed export.
type Dataset struct {
	Sales     []model.SalesRecord
	Bank      []model.BankRecord
	Inventory []model.InventoryRecord
	Income    *model.IncomeStatement
	Purchases []model.PurchaseRecord
	Sources   []report.Source
	Warnings  []report.Warning
}

// LoadOptions controls Load.
type LoadOptions struct {
	Strict bool
	Log    logrus.FieldLogger
}

func configured(in config.InputsConfig, kind importer.Kind) []string {
	switch kind {
	case importer.KindSales:
		return in.Sales
	case importer.KindBank:
		return in.Bank
	case importer.KindInventory:
		return in.Inventory
	case importer.KindIncome:
		return in.Income
	case importer.KindPurchases:
		return in.Purchases
	}
	return nil
}

// Sources lists the exports to read, in pipeline kind order. Files pinned in
// the config win; kinds with nothing pinned are discovered in import/ by
// file name. Discovered files whose kind cannot be told from the name are
// logged and skipped.
func (w *Workspace) Sources(log logrus.FieldLogger) ([]Source, error) {
	files, err := importer.Scan(w.Root)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if f.Kind == "" {
			log.WithField("file", f.Name).Warn("skipping export with unrecognized name")
		}
	}

	var sources []Source
	for _, kind := range importer.Kinds {
		if pinned := configured(w.Config.Inputs, kind); len(pinned) > 0 {
			for _, p := range pinned {
				sources = append(sources, Source{Kind: kind, Path: w.path(p)})
			}
			continue
		}
		for _, f := range files {
			if f.Kind == kind {
				sources = append(sources, Source{Kind: kind, Path: f.Path})
			}
		}
	}
	return sources, nil
}

// Load parses sources concurrently and merges the results in source order.
// Any read failure cancels the remaining work and is returned.
func Load(ctx context.Context, sources []Source, reg *importer.Registry, opts LoadOptions) (*Dataset, error) {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	batches := make([]importer.Batch, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := parseFile(reg, src, opts.Strict)
			if err != nil {
				return err
			}
			batches[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ds := &Dataset{}
	seq := id.NewSequencer()
	for i, b := range batches {
		src := sources[i]
		name := filepath.Base(src.Path)
		entry := log.WithFields(logrus.Fields{
			"kind":     src.Kind,
			"file":     name,
			"records":  b.Len(),
			"warnings": len(b.Warnings),
		})
		if b.Len() == 0 {
			entry.Warn("no records found, check the export's header row")
		} else {
			entry.Info("parsed export")
		}

		ds.Sources = append(ds.Sources, report.Source{File: name, Kind: string(src.Kind), Records: b.Len()})
		for _, w := range b.Warnings {
			ds.Warnings = append(ds.Warnings, report.Warning{File: name, Warning: w})
		}

		ds.Sales = append(ds.Sales, b.Sales...)
		ds.Inventory = append(ds.Inventory, b.Inventory...)
		ds.Purchases = append(ds.Purchases, b.Purchases...)
		for _, r := range b.Bank {
			r.ID = seq.Next(id.Base(r.ID))
			ds.Bank = append(ds.Bank, r)
		}
		if b.Income != nil {
			if ds.Income != nil {
				entry.Warn("more than one income statement, keeping the first")
				continue
			}
			ds.Income = b.Income
		}
	}
	return ds, nil
}

func parseFile(reg *importer.Registry, src Source, strict bool) (importer.Batch, error) {
	p, err := reg.Lookup(src.Kind)
	if err != nil {
		return importer.Batch{}, err
	}
	f, err := os.Open(src.Path)
	if err != nil {
		return importer.Batch{}, fmt.Errorf("opening %s export: %w", src.Kind, err)
	}
	defer f.Close()

	b, err := p.Parse(f, strict)
	if err != nil {
		return importer.Batch{}, fmt.Errorf("parsing %s: %w", src.Path, err)
	}
	return b, nil
}
