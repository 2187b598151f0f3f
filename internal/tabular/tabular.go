// Package tabular splits loosely structured export text into rows of fields.
//
// The comma tokenizer is deliberately simpler than encoding/csv: a double
// quote only toggles "in quotes" state, quoted fields never span lines and
// there is no "" escape. Exports produced by the POS and the bank never use
// escapes, but they do contain stray quotes that encoding/csv rejects.
package tabular

import (
	"regexp"
	"strings"
)

var lineBreak = regexp.MustCompile(`\r?\n`)

// Format is the delimiter family of an export.
type Format int

const (
	FormatCSV Format = iota
	FormatTSV
)

func (f Format) String() string {
	if f == FormatTSV {
		return "tsv"
	}
	return "csv"
}

// ParseCSV tokenizes comma-delimited text, honoring double-quoted fields.
func ParseCSV(text string) [][]string {
	lines := splitLines(text)
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, splitQuoted(line))
	}
	return rows
}

// ParseTSV tokenizes tab-delimited text. Quotes have no special meaning.
func ParseTSV(text string) [][]string {
	lines := splitLines(text)
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		cols := strings.Split(line, "\t")
		for i := range cols {
			cols[i] = strings.TrimSpace(cols[i])
		}
		rows = append(rows, cols)
	}
	return rows
}

// Parse tokenizes text in the given format.
func Parse(text string, f Format) [][]string {
	if f == FormatTSV {
		return ParseTSV(text)
	}
	return ParseCSV(text)
}

// Sniff guesses the delimiter from the first substantive line (longer than
// ten characters once trimmed): more tabs than commas means TSV.
func Sniff(text string) Format {
	for _, line := range lineBreak.Split(text, -1) {
		if len(strings.TrimSpace(line)) <= 10 {
			continue
		}
		if strings.Count(line, "\t") > strings.Count(line, ",") {
			return FormatTSV
		}
		return FormatCSV
	}
	return FormatCSV
}

// FindHeader returns the index of the first row accepted by match, or -1.
func FindHeader(rows [][]string, match func(row []string) bool) int {
	for i, row := range rows {
		if match(row) {
			return i
		}
	}
	return -1
}

// HasCell reports whether row has a cell equal to want.
func HasCell(row []string, want string) bool {
	return IndexOf(row, want) >= 0
}

// IndexOf returns the index of the first cell equal to want, or -1.
func IndexOf(row []string, want string) int {
	for i, c := range row {
		if c == want {
			return i
		}
	}
	return -1
}

// IndexFold is IndexOf with case-insensitive comparison.
func IndexFold(row []string, want string) int {
	for i, c := range row {
		if strings.EqualFold(c, want) {
			return i
		}
	}
	return -1
}

// Cell returns row[i], or "" when the row is too short.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func splitLines(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return lineBreak.Split(text, -1)
}

func splitQuoted(line string) []string {
	var cols []string
	var cur strings.Builder
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			cols = append(cols, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	return append(cols, strings.TrimSpace(cur.String()))
}
