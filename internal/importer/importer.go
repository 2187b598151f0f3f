package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ghostledger/ghostledger/internal/amount"
	"github.com/ghostledger/ghostledger/internal/model"
)

// Batch holds the records parsed from one export. Only the slice matching
// Kind is populated.
type Batch struct {
	Kind      Kind
	Sales     []model.SalesRecord
	Bank      []model.BankRecord
	Inventory []model.InventoryRecord
	Income    *model.IncomeStatement
	Purchases []model.PurchaseRecord
	Warnings  []amount.Warning // only collected in strict mode
}

// Len returns the number of records in the batch. An income statement
// counts as one record.
func (b Batch) Len() int {
	n := len(b.Sales) + len(b.Bank) + len(b.Inventory) + len(b.Purchases)
	if b.Income != nil {
		n++
	}
	return n
}

// Parser converts one kind of exported report into canonical records.
// Structural problems never fail a parse: a missing header gives an empty
// batch. The only error is a failure to read r.
type Parser interface {
	Parse(r io.Reader, strict bool) (Batch, error)
	Kind() Kind
}

// Registry holds parsers by kind.
type Registry struct {
	parsers map[Kind]Parser
}

// FileInfo describes an export file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
	Kind Kind // "" when the name has no known prefix
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[Kind]Parser)}
}

// Register adds a parser. Panics on duplicate kind.
func (r *Registry) Register(p Parser) {
	key := Kind(strings.ToLower(string(p.Kind())))
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser kind: " + string(key))
	}
	r.parsers[key] = p
}

// Get returns the parser for kind, or nil.
func (r *Registry) Get(kind Kind) Parser {
	return r.parsers[Kind(strings.ToLower(string(kind)))]
}

// Lookup is Get with an ErrUnknownKind error instead of nil.
func (r *Registry) Lookup(kind Kind) (Parser, error) {
	p := r.Get(kind)
	if p == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return p, nil
}

// DefaultRegistry returns a registry with all built-in parsers. Bank lines
// are classified with c; nil uses the built-in keyword rules.
func DefaultRegistry(c Classifier) *Registry {
	r := NewRegistry()
	r.Register(SalesParser{})
	r.Register(BankParser{Classifier: c})
	r.Register(InventoryParser{})
	r.Register(IncomeParser{})
	r.Register(PurchasesParser{})
	return r
}

// readAll reads an export and returns its text with a reader for numeric
// fields. The reader is nil unless strict.
func readAll(r io.Reader, kind Kind, strict bool) (string, *amount.Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", nil, fmt.Errorf("reading %s export: %w", kind, err)
	}
	var nr *amount.Reader
	if strict {
		nr = amount.NewReader()
	}
	return string(data), nr, nil
}

// importDir is the subdirectory for exported reports.
const importDir = "import"

// processedDir is the subdirectory for processed reports.
const processedDir = "import/processed"

var exportExts = map[string]bool{".csv": true, ".tsv": true, ".txt": true}

// Scan returns export files in <repoRoot>/import/, sorted by name.
func Scan(repoRoot string) ([]FileInfo, error) {
	dir := filepath.Join(repoRoot, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !exportExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		kind, _ := KindFromFilename(e.Name())
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
			Kind: kind,
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(repoRoot, fileName string) error {
	src := filepath.Join(repoRoot, importDir, fileName)
	dstDir := filepath.Join(repoRoot, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
