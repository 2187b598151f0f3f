// Package reconcile matches POS sales against bank deposits.
//
// Every deposit ends up in exactly one reconciliation line. Strategies
// decide how deposits are explained; the claim set they share guarantees
// that no deposit is counted twice, whatever the strategy.
package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Params tunes the matching heuristics.
type Params struct {
	// FeeTolerance is the share a card processor keeps before depositing.
	FeeTolerance decimal.Decimal
	// ExactTolerance bounds a reference-backed amount match (sales-led).
	ExactTolerance decimal.Decimal
	// LooseTolerance bounds a plain amount match (sales-led).
	LooseTolerance decimal.Decimal
	CardKeywords   []string
	CashKeywords   []string
}

// DefaultParams returns the standard tolerances: 3% card fee, one cent
// exact, fifty cents loose.
func DefaultParams() Params {
	return Params{
		FeeTolerance:   decimal.RequireFromString("0.03"),
		ExactTolerance: decimal.RequireFromString("0.01"),
		LooseTolerance: decimal.RequireFromString("0.50"),
		CardKeywords:   []string{"ppc", "card", "visa", "master"},
		CashKeywords:   []string{"cash"},
	}
}

// ErrInvalidParams is returned by NewStrategy for out-of-range tolerances.
var ErrInvalidParams = errors.New("invalid reconciliation parameters")

// Validate checks that the fee lies in [0, 1) and that the match
// tolerances are not negative.
func (p Params) Validate() error {
	one := decimal.NewFromInt(1)
	if p.FeeTolerance.IsNegative() || p.FeeTolerance.GreaterThanOrEqual(one) {
		return fmt.Errorf("%w: fee tolerance %s must be in [0, 1)", ErrInvalidParams, p.FeeTolerance)
	}
	if p.ExactTolerance.IsNegative() || p.LooseTolerance.IsNegative() {
		return fmt.Errorf("%w: negative amount tolerance", ErrInvalidParams)
	}
	return nil
}

// containsAny reports whether the lowercased text contains any keyword.
func containsAny(text string, keywords []string) bool {
	t := strings.ToLower(text)
	for _, k := range keywords {
		if k != "" && strings.Contains(t, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

var hundred = decimal.NewFromInt(100)

// percent renders a fraction as "3%".
func percent(f decimal.Decimal) string {
	return f.Mul(hundred).String() + "%"
}
