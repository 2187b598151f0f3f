package reconcile

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ghostledger/ghostledger/internal/model"
)

// ValidationError describes a single broken guarantee of a result.
type ValidationError struct {
	Check       int    `json:"check"`
	LineID      string `json:"line_id"`
	Description string `json:"description"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("check %d [%s]: %s", e.Check, e.LineID, e.Description)
}

// Verify re-checks a result against the bank ledger it came from:
//
//  1. every deposit appears in exactly one line
//  2. line bank amounts add up to the deposits
//  3. each line's gap is source minus bank
//  4. line IDs are unique and every line references a sale or a deposit
func Verify(res Result, bank []model.BankRecord) []ValidationError {
	var errs []ValidationError
	deposits := Deposits(bank)

	// Check 1: multiset of deposit IDs equals multiset of line bank refs.
	want := make(map[string]int, len(deposits))
	for _, d := range deposits {
		want[d.Record.ID]++
	}
	got := make(map[string]int, len(deposits))
	for _, l := range res.Lines {
		for _, ref := range l.BankRefs {
			got[ref]++
			if got[ref] > want[ref] {
				errs = append(errs, ValidationError{
					Check:       1,
					LineID:      l.ID,
					Description: fmt.Sprintf("deposit %s claimed more often than it occurs", ref),
				})
			}
		}
	}
	for _, d := range deposits {
		ref := d.Record.ID
		if got[ref] < want[ref] {
			errs = append(errs, ValidationError{
				Check:       1,
				LineID:      ref,
				Description: "deposit missing from reconciliation",
			})
			got[ref] = want[ref] // report once per ID
		}
	}

	// Check 2: no value created or destroyed.
	lineTotal := decimal.Zero
	for _, l := range res.Lines {
		lineTotal = lineTotal.Add(l.BankAmount)
	}
	depositTotal := decimal.Zero
	for _, d := range deposits {
		depositTotal = depositTotal.Add(d.Amount())
	}
	if !lineTotal.Equal(depositTotal) {
		errs = append(errs, ValidationError{
			Check:       2,
			LineID:      "*",
			Description: fmt.Sprintf("lines bank total (%s) != deposits (%s)", lineTotal.StringFixed(2), depositTotal.StringFixed(2)),
		})
	}

	seen := make(map[string]bool, len(res.Lines))
	for _, l := range res.Lines {
		// Check 3: gap arithmetic.
		if !l.Gap.Equal(l.SourceAmount.Sub(l.BankAmount)) {
			errs = append(errs, ValidationError{
				Check:       3,
				LineID:      l.ID,
				Description: fmt.Sprintf("gap %s != %s - %s", l.Gap, l.SourceAmount, l.BankAmount),
			})
		}

		// Check 4: identity.
		if seen[l.ID] {
			errs = append(errs, ValidationError{Check: 4, LineID: l.ID, Description: "duplicate line ID"})
		}
		seen[l.ID] = true
		if len(l.SalesRefs) == 0 && len(l.BankRefs) == 0 {
			errs = append(errs, ValidationError{Check: 4, LineID: l.ID, Description: "line references nothing"})
		}
	}

	return errs
}
