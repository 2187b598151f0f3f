// Package report assembles the outcome of a run and writes it as JSON, a
// ledger CSV, an Excel workbook and a terminal summary.
package report

import (
	"time"

	"github.com/ghostledger/ghostledger/internal/amount"
	"github.com/ghostledger/ghostledger/internal/costlink"
	"github.com/ghostledger/ghostledger/internal/model"
	"github.com/ghostledger/ghostledger/internal/quality"
	"github.com/ghostledger/ghostledger/internal/reconcile"
	"github.com/ghostledger/ghostledger/internal/tax"
)

// Source describes one parsed export.
type Source struct {
	File    string `json:"file"`
	Kind    string `json:"kind"`
	Records int    `json:"records"`
}

// Warning is a coerced numeric field, tagged with the file it came from.
type Warning struct {
	File string `json:"file"`
	amount.Warning
}

// Transaction is a bank line with its resolved destination category.
type Transaction struct {
	model.BankRecord
	Category   string `json:"category"`
	Overridden bool   `json:"overridden,omitempty"`
}

// Report is everything one run produced.
type Report struct {
	RunID          string                      `json:"run_id"`
	GeneratedAt    time.Time                   `json:"generated_at"`
	Business       string                      `json:"business"`
	Sources        []Source                    `json:"sources"`
	Reconciliation reconcile.Result            `json:"reconciliation"`
	Violations     []reconcile.ValidationError `json:"violations,omitempty"`
	Transactions   []Transaction               `json:"transactions"`
	CostLink       costlink.Stats              `json:"cost_link"`
	Quality        quality.Report              `json:"quality"`
	Tax            tax.Estimate                `json:"tax"`
	Income         *model.IncomeStatement      `json:"income,omitempty"`
	StaleOverrides []string                    `json:"stale_overrides,omitempty"`
	Warnings       []Warning                   `json:"warnings,omitempty"`
}

// Uncategorized returns the transactions no rule or override placed.
func (r *Report) Uncategorized() []Transaction {
	var out []Transaction
	for _, t := range r.Transactions {
		if t.Category == model.Uncategorized {
			out = append(out, t)
		}
	}
	return out
}
