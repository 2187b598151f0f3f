package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ghostledger/ghostledger/internal/amount"
	"github.com/ghostledger/ghostledger/internal/classify"
	"github.com/ghostledger/ghostledger/internal/importer"
	"github.com/ghostledger/ghostledger/internal/pipeline"
)

// parseOutput is the JSON shape printed by the parse command.
type parseOutput struct {
	Kind     importer.Kind    `json:"kind"`
	File     string           `json:"file"`
	Count    int              `json:"count"`
	Records  any              `json:"records"`
	Warnings []amount.Warning `json:"warnings,omitempty"`
}

func newParseCommand() *cobra.Command {
	var (
		repoDir string
		strict  bool
	)

	cmd := &cobra.Command{
		Use:   "parse <kind> <file>",
		Short: "Parse one exported report and print its records as JSON",
		Long: `Parse one exported report and print its records as JSON.

Kind is one of: sales, bank, inventory, income, purchases.
Bank lines are classified with the workspace rules when --repo points at a
workspace, and with the built-in rules otherwise.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := importer.ParseKind(args[0])
			if err != nil {
				return err
			}
			root, err := absRepo(repoDir)
			if err != nil {
				return err
			}
			return runParse(root, kind, args[1], strict, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "workspace directory for classification rules")
	cmd.Flags().BoolVar(&strict, "strict", false, "report numeric fields that had to be coerced")

	return cmd
}

func runParse(root string, kind importer.Kind, path string, strict bool, out io.Writer) error {
	classifier := classify.Default()
	ws, err := pipeline.Open(root)
	switch {
	case err == nil:
		classifier = ws.Classifier
	case !errors.Is(err, pipeline.ErrNoWorkspace):
		return err
	}

	p, err := importer.DefaultRegistry(classifier).Lookup(kind)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s export: %w", kind, err)
	}
	defer f.Close()

	b, err := p.Parse(f, strict)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	res := parseOutput{Kind: kind, File: path, Count: b.Len(), Warnings: b.Warnings}
	switch kind {
	case importer.KindSales:
		res.Records = b.Sales
	case importer.KindBank:
		res.Records = b.Bank
	case importer.KindInventory:
		res.Records = b.Inventory
	case importer.KindIncome:
		res.Records = b.Income
	case importer.KindPurchases:
		res.Records = b.Purchases
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
