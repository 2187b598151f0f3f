package amount

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// maxExponent bounds scientific notation. Larger exponents are not amounts
// and would expand to millions of digits.
const maxExponent = 20

// numericPrefix matches the leading number of a cleaned field. Anything after
// it is dropped, the way spreadsheet exports are usually read ("20%" -> 20).
var numericPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// Parse converts an accounting-formatted string into a decimal.
//
// Blank, whitespace-only and "-" fields are zero. Thousands separators and
// embedded spaces are removed, and "(1,234.00)" is read as -1234.00.
// Unparseable input is zero: Parse never fails.
func Parse(raw string) decimal.Decimal {
	d, _ := parse(raw)
	return d
}

// ParsePercent reads a percentage cell such as "20%" or "12.5". The result is
// invalid when the cell is blank or holds no number.
func ParsePercent(raw string) decimal.NullDecimal {
	s := strings.TrimSpace(strings.ReplaceAll(raw, "%", ""))
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, reason := parse(s)
	if reason == reasonNotNumber {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

const reasonNotNumber = "not a number"

// parse returns the value and, when the input had to be coerced, a short
// reason describing what was lost.
func parse(raw string) (decimal.Decimal, string) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" {
		return decimal.Zero, ""
	}

	s = strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	negative := false
	if len(s) >= 2 && strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	m := numericPrefix.FindString(s)
	if m == "" {
		return decimal.Zero, reasonNotNumber
	}

	if !exponentInRange(m) {
		return decimal.Zero, reasonNotNumber
	}
	d, err := decimal.NewFromString(normalize(m))
	if err != nil {
		return decimal.Zero, reasonNotNumber
	}

	var reason string
	if len(m) < len(s) {
		reason = fmt.Sprintf("ignored trailing %q", s[len(m):])
	}
	if negative {
		d = d.Neg()
	}
	return d, reason
}

// exponentInRange reports whether the exponent of m, if any, is at most
// maxExponent in magnitude.
func exponentInRange(m string) bool {
	i := strings.IndexAny(m, "eE")
	if i < 0 {
		return true
	}
	exp, err := strconv.Atoi(m[i+1:])
	if err != nil {
		return false
	}
	return exp >= -maxExponent && exp <= maxExponent
}

// normalize rewrites a matched prefix into a form decimal.NewFromString
// accepts: no leading '+', no bare leading or trailing '.'.
func normalize(m string) string {
	sign := ""
	switch {
	case strings.HasPrefix(m, "-"):
		sign, m = "-", m[1:]
	case strings.HasPrefix(m, "+"):
		m = m[1:]
	}
	if strings.HasPrefix(m, ".") {
		m = "0" + m
	}
	if i := strings.IndexAny(m, "eE"); i > 0 && m[i-1] == '.' {
		m = m[:i-1] + m[i:]
	}
	m = strings.TrimSuffix(m, ".")
	return sign + m
}
