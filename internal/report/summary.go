package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/ghostledger/ghostledger/internal/model"
	"github.com/ghostledger/ghostledger/internal/reconcile"
)

var (
	heading   = color.New(color.Bold)
	good      = color.New(color.FgGreen)
	warn      = color.New(color.FgYellow)
	bad       = color.New(color.FgRed)
	statusTag = map[model.MatchStatus]*color.Color{
		model.StatusMatched:   color.New(color.BgGreen, color.FgBlack),
		model.StatusPartial:   color.New(color.BgYellow, color.FgBlack),
		model.StatusUnmatched: color.New(color.BgRed, color.FgWhite),
	}
)

// WriteSummary prints a human-readable run summary. Colors follow
// color.NoColor, which is set when stdout is not a terminal.
func WriteSummary(w io.Writer, rep *Report, verbose bool) {
	heading.Fprintf(w, "%s reconciliation (%s)\n", rep.Business, rep.Reconciliation.Strategy)
	fmt.Fprintf(w, "  run %s\n", rep.RunID)
	for _, s := range rep.Sources {
		fmt.Fprintf(w, "  %-9s %4d  %s\n", s.Kind, s.Records, s.File)
	}
	fmt.Fprintln(w)

	WriteReconciliation(w, rep.Reconciliation, verbose)
	fmt.Fprintln(w)

	score := good
	switch {
	case rep.Quality.HealthScore < 50:
		score = bad
	case rep.Quality.HealthScore < 80:
		score = warn
	}
	score.Fprintf(w, "Health score: %d/100\n", rep.Quality.HealthScore)
	fmt.Fprintf(w, "  zero-cost items %d, leaks %d (value at risk %s), uncategorized purchases %d\n",
		len(rep.Quality.ZeroCost), len(rep.Quality.Leaks), rep.Quality.ValueAtRisk.StringFixed(2),
		len(rep.Quality.UncategorizedPurchases))
	fmt.Fprintf(w, "  cost-linked %d of %d\n", rep.CostLink.Linked, rep.CostLink.Missing)
	fmt.Fprintf(w, "Tax estimate: VAT %s, PLT %s\n", rep.Tax.Total.VAT.StringFixed(2), rep.Tax.Total.PLT.StringFixed(2))

	if n := len(rep.Uncategorized()); n > 0 {
		warn.Fprintf(w, "%d bank lines uncategorized; set one with: ghostledger override <record-id> <category>\n", n)
	}
	if len(rep.StaleOverrides) > 0 {
		warn.Fprintf(w, "%d overrides match no bank line\n", len(rep.StaleOverrides))
	}
	if len(rep.Violations) > 0 {
		bad.Fprintf(w, "%d consistency check failures\n", len(rep.Violations))
		for _, v := range rep.Violations {
			fmt.Fprintf(w, "  %s\n", v.Error())
		}
	}
	if len(rep.Warnings) > 0 {
		warn.Fprintf(w, "%d numeric fields coerced\n", len(rep.Warnings))
		if verbose {
			for _, wn := range rep.Warnings {
				fmt.Fprintf(w, "  %s: %s\n", wn.File, wn.Warning.String())
			}
		}
	}
}

// WriteReconciliation prints the totals of a reconciliation result and,
// when verbose, one row per line.
func WriteReconciliation(w io.Writer, res reconcile.Result, verbose bool) {
	sum := res.Summary
	fmt.Fprintf(w, "Lines: %d  ", sum.Lines)
	good.Fprintf(w, "matched %d  ", sum.Matched)
	warn.Fprintf(w, "partial %d  ", sum.Partial)
	bad.Fprintf(w, "unmatched %d\n", sum.Unmatched)
	fmt.Fprintf(w, "Match rate:     %s%%\n", sum.MatchRate.Shift(2).StringFixed(2))
	fmt.Fprintf(w, "Verified:       %s\n", sum.TotalVerified.StringFixed(2))
	fmt.Fprintf(w, "Unmatched:      %s\n", sum.TotalUnmatched.StringFixed(2))
	fmt.Fprintf(w, "Card fees:      %s\n", sum.TotalFees.StringFixed(2))
	fmt.Fprintf(w, "Sales total:    %s\n", sum.SalesTotal.StringFixed(2))
	fmt.Fprintf(w, "Deposits total: %s\n", sum.DepositTotal.StringFixed(2))
	fmt.Fprintf(w, "Discrepancy:    %s\n", sum.Discrepancy.StringFixed(2))

	if verbose {
		fmt.Fprintln(w)
		for _, l := range res.Lines {
			statusTag[l.Status].Fprintf(w, " %-9s ", l.Status)
			fmt.Fprintf(w, " %s %-9s %10s %10s %10s  %s\n",
				l.ID, l.Channel, l.SourceAmount.StringFixed(2), l.BankAmount.StringFixed(2), l.Gap.StringFixed(2), l.Reason)
		}
	}
}
