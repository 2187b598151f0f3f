package importer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Kind names the type of an exported report.
type Kind string

const (
	KindSales     Kind = "sales"
	KindBank      Kind = "bank"
	KindInventory Kind = "inventory"
	KindIncome    Kind = "income"
	KindPurchases Kind = "purchases"
)

// Kinds lists every report kind in pipeline order.
var Kinds = []Kind{KindSales, KindBank, KindInventory, KindIncome, KindPurchases}

// ErrUnknownKind is returned for a report kind with no parser.
var ErrUnknownKind = errors.New("unknown report kind")

// ParseKind converts a user-supplied name ("Sales", "bank") into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// filePrefixes maps file name prefixes to kinds. Longer prefixes first.
var filePrefixes = []struct {
	prefix string
	kind   Kind
}{
	{"purchases", KindPurchases},
	{"purchase", KindPurchases},
	{"inventory", KindInventory},
	{"income", KindIncome},
	{"sales", KindSales},
	{"bank", KindBank},
}

// KindFromFilename infers the report kind from a file name such as
// "bank-statement-dec-2025.csv". ok is false when no prefix matches.
func KindFromFilename(name string) (kind Kind, ok bool) {
	base := strings.ToLower(filepath.Base(name))
	for _, p := range filePrefixes {
		if strings.HasPrefix(base, p.prefix) {
			return p.kind, true
		}
	}
	return "", false
}
