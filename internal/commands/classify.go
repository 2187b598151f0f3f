package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ghostledger/ghostledger/internal/importer"
	"github.com/ghostledger/ghostledger/internal/logging"
	"github.com/ghostledger/ghostledger/internal/model"
	"github.com/ghostledger/ghostledger/internal/pipeline"
)

type classifyOptions struct {
	repoDir       string
	bankPath      string
	uncategorized bool
}

var overriddenTag = color.New(color.FgCyan)

func newClassifyCommand() *cobra.Command {
	var opts classifyOptions

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "List bank lines with their record ID and category",
		Long: `List bank lines with their record ID and category.

Categories come from the workspace rules; reviewer overrides are marked
with "*". Use the record ID with "ghostledger override" to change one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := absRepo(opts.repoDir)
			if err != nil {
				return err
			}
			return runClassify(cmd.Context(), root, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.repoDir, "repo", ".", "workspace directory")
	cmd.Flags().StringVar(&opts.bankPath, "bank", "", "bank export (default: the workspace's bank exports)")
	cmd.Flags().BoolVar(&opts.uncategorized, "uncategorized", false, "only list lines without a category")

	return cmd
}

func runClassify(ctx context.Context, root string, opts classifyOptions, out io.Writer) error {
	ws, err := pipeline.Open(root)
	if err != nil {
		return err
	}
	log := logging.Discard()

	var sources []pipeline.Source
	if opts.bankPath != "" {
		sources = []pipeline.Source{{Kind: importer.KindBank, Path: opts.bankPath}}
	} else {
		all, err := ws.Sources(log)
		if err != nil {
			return err
		}
		for _, s := range all {
			if s.Kind == importer.KindBank {
				sources = append(sources, s)
			}
		}
	}
	if len(sources) == 0 {
		return fmt.Errorf("no bank exports found in %s", root)
	}

	ds, err := pipeline.Load(ctx, sources, importer.DefaultRegistry(ws.Classifier), pipeline.LoadOptions{Log: log})
	if err != nil {
		return err
	}

	listed := 0
	for _, r := range ds.Bank {
		category := ws.Overrides.Resolve(r)
		if category == "" {
			category = model.Uncategorized
		}
		if opts.uncategorized && category != model.Uncategorized {
			continue
		}
		_, overridden := ws.Overrides.Get(r.ID)
		writeBankLine(out, r, category, overridden)
		listed++
	}
	fmt.Fprintf(out, "%d of %d bank lines\n", listed, len(ds.Bank))
	return nil
}

func writeBankLine(w io.Writer, r model.BankRecord, category string, overridden bool) {
	fmt.Fprintf(w, "%-14s %-10s %10s %10s  ", r.ID, r.Date, r.MoneyIn.StringFixed(2), r.MoneyOut.StringFixed(2))
	if overridden {
		overriddenTag.Fprintf(w, "*%-24s", category)
	} else {
		fmt.Fprintf(w, " %-24s", category)
	}
	fmt.Fprintf(w, " %s\n", r.Details)
}
