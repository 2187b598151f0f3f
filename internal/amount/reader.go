package amount

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Warning records a numeric field that was coerced while parsing.
type Warning struct {
	Row    int    `json:"row"` // 1-based source line
	Field  string `json:"field"`
	Raw    string `json:"raw"`
	Reason string `json:"reason"`
}

func (w Warning) String() string {
	return fmt.Sprintf("row %d %s %q: %s", w.Row, w.Field, w.Raw, w.Reason)
}

// Reader parses numeric fields leniently and, unlike Parse, remembers every
// field it had to coerce. A nil *Reader behaves exactly like Parse.
type Reader struct {
	warnings []Warning
}

// NewReader returns a Reader that collects warnings.
func NewReader() *Reader {
	return &Reader{}
}

// Parse reads one field. row is the 0-based row index in the tokenized input.
func (r *Reader) Parse(row int, field, raw string) decimal.Decimal {
	d, reason := parse(raw)
	if r != nil && reason != "" {
		r.warnings = append(r.warnings, Warning{Row: row + 1, Field: field, Raw: raw, Reason: reason})
	}
	return d
}

// Warnings returns the collected warnings in the order they were found.
func (r *Reader) Warnings() []Warning {
	if r == nil {
		return nil
	}
	return r.warnings
}
