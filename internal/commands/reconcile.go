package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ghostledger/ghostledger/internal/classify"
	"github.com/ghostledger/ghostledger/internal/importer"
	"github.com/ghostledger/ghostledger/internal/logging"
	"github.com/ghostledger/ghostledger/internal/pipeline"
	"github.com/ghostledger/ghostledger/internal/reconcile"
	"github.com/ghostledger/ghostledger/internal/report"
)

type reconcileOptions struct {
	salesPath string
	bankPath  string
	strategy  string
	fee       float64
	asJSON    bool
	verbose   bool
}

// reconcileOutput is the JSON shape printed by reconcile --json.
type reconcileOutput struct {
	reconcile.Result
	Violations []reconcile.ValidationError `json:"violations"`
}

func newReconcileCommand() *cobra.Command {
	var opts reconcileOptions

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile one sales export against one bank export",
		Long: `Reconcile one sales export against one bank export without a workspace.

Default tolerances apply; --fee overrides the card processing fee.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.salesPath, "sales", "", "sales export (required)")
	cmd.Flags().StringVar(&opts.bankPath, "bank", "", "bank export (required)")
	cmd.Flags().StringVar(&opts.strategy, "strategy", reconcile.StrategyBankLed, "bank-led or sales-led")
	cmd.Flags().Float64Var(&opts.fee, "fee", 0, "card processing fee as a fraction, e.g. 0.025")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the result as JSON")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "print every reconciliation line")
	_ = cmd.MarkFlagRequired("sales")
	_ = cmd.MarkFlagRequired("bank")

	return cmd
}

func runReconcile(ctx context.Context, opts reconcileOptions, out io.Writer) error {
	if opts.fee < 0 || opts.fee >= 1 {
		return fmt.Errorf("--fee %v: must be at least 0 and below 1", opts.fee)
	}
	params := reconcile.DefaultParams()
	if opts.fee > 0 {
		params.FeeTolerance = decimal.NewFromFloat(opts.fee)
	}
	strategy, err := reconcile.NewStrategy(opts.strategy, params)
	if err != nil {
		return err
	}

	sources := []pipeline.Source{
		{Kind: importer.KindSales, Path: opts.salesPath},
		{Kind: importer.KindBank, Path: opts.bankPath},
	}
	ds, err := pipeline.Load(ctx, sources, importer.DefaultRegistry(classify.Default()),
		pipeline.LoadOptions{Log: logging.Discard()})
	if err != nil {
		return err
	}

	res := reconcile.Run(ds.Sales, ds.Bank, strategy)
	violations := reconcile.Verify(res, ds.Bank)

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(reconcileOutput{Result: res, Violations: violations})
	}
	report.WriteReconciliation(out, res, opts.verbose)
	for _, v := range violations {
		fmt.Fprintf(out, "check failed: %s\n", v.Error())
	}
	return nil
}
