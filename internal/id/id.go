package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// namespace scopes content-derived record IDs to this tool.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://ghostledger.dev/records"))

// hashLen is the number of hex digits of the content hash kept in an ID.
const hashLen = 8

// Record returns a content-derived ID like "bnk-1a2b3c4d". The same prefix
// and fields always give the same ID.
func Record(prefix string, fields ...string) string {
	u := uuid.NewSHA1(namespace, []byte(strings.Join(fields, "\x1f")))
	h := strings.ReplaceAll(u.String(), "-", "")
	return prefix + "-" + h[:hashLen]
}

// FormatOccurrence returns the ID of the n-th record (0-based) sharing the
// base ID: "bnk-1a2b3c4d", "bnk-1a2b3c4d.b", "bnk-1a2b3c4d.c", ...
func FormatOccurrence(base string, n int) string {
	if n <= 0 {
		return base
	}
	if n < 26 {
		return base + "." + string(rune('a'+n))
	}
	return fmt.Sprintf("%s.%d", base, n)
}

// Base strips the occurrence suffix.
// "bnk-1a2b3c4d.b" -> "bnk-1a2b3c4d"
func Base(recordID string) string {
	if i := strings.LastIndexByte(recordID, '.'); i >= 0 {
		return recordID[:i]
	}
	return recordID
}

// ParseRecord splits "bnk-1a2b3c4d.b" into its prefix and hash.
func ParseRecord(recordID string) (prefix, hash string, err error) {
	base := Base(recordID)
	i := strings.LastIndexByte(base, '-')
	if i <= 0 || i == len(base)-1 {
		return "", "", fmt.Errorf("invalid record ID format: %q", recordID)
	}
	prefix, hash = base[:i], base[i+1:]
	if len(hash) != hashLen {
		return "", "", fmt.Errorf("invalid hash in record ID %q", recordID)
	}
	for _, c := range hash {
		if !strings.ContainsRune("0123456789abcdef", c) {
			return "", "", fmt.Errorf("invalid hash in record ID %q", recordID)
		}
	}
	return prefix, hash, nil
}

// Sequencer hands out unique IDs for records that may share content.
// Identical rows in one import get distinct, still deterministic, IDs.
type Sequencer struct {
	seen map[string]int
}

// NewSequencer returns an empty Sequencer.
func NewSequencer() *Sequencer {
	return &Sequencer{seen: make(map[string]int)}
}

// Next returns the ID for the next record with the given base ID.
func (s *Sequencer) Next(base string) string {
	n := s.seen[base]
	s.seen[base] = n + 1
	return FormatOccurrence(base, n)
}

// NewRun returns a random ID for one pipeline run.
func NewRun() string {
	return uuid.NewString()
}

// FormatLineID returns a reconciliation line ID like "rec-0001" for the
// 1-based position of a line in a run.
func FormatLineID(seq int) string {
	return fmt.Sprintf("rec-%04d", seq)
}
