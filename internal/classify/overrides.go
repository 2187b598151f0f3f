package classify

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ghostledger/ghostledger/internal/model"
)

// Overrides holds reviewer decisions keyed by bank record ID. Parsed records
// are never changed; Resolve consults the map instead.
type Overrides struct {
	byID map[string]string
}

type overrideFile struct {
	Overrides map[string]string `yaml:"overrides"`
}

// NewOverrides returns an empty override set.
func NewOverrides() *Overrides {
	return &Overrides{byID: make(map[string]string)}
}

// OverridesPath returns the location of the override file in a workspace.
func OverridesPath(repoRoot string) string {
	return filepath.Join(repoRoot, "rules", "overrides.yaml")
}

// LoadOverrides reads an override file. A missing file is an empty set.
func LoadOverrides(path string) (*Overrides, error) {
	o := NewOverrides()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return o, nil
		}
		return nil, fmt.Errorf("reading overrides: %w", err)
	}
	var f overrideFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing overrides: %w", err)
	}
	for k, v := range f.Overrides {
		o.byID[k] = v
	}
	return o, nil
}

// Save writes the override set, creating its directory. Keys are written in
// sorted order.
func (o *Overrides) Save(path string) error {
	data, err := yaml.Marshal(overrideFile{Overrides: o.byID})
	if err != nil {
		return fmt.Errorf("marshaling overrides: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating rules dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing overrides: %w", err)
	}
	return nil
}

// Validate checks that every override names a category in vocab.
func (o *Overrides) Validate(vocab Vocabulary) error {
	var errs []error
	for _, id := range o.IDs() {
		if c := o.byID[id]; !vocab.Exists(c) {
			errs = append(errs, fmt.Errorf("override %s: unknown category %q", id, c))
		}
	}
	return errors.Join(errs...)
}

// Set records category as the destination of recordID.
func (o *Overrides) Set(recordID, category string) {
	o.byID[recordID] = category
}

// Delete removes the override for recordID.
func (o *Overrides) Delete(recordID string) {
	delete(o.byID, recordID)
}

// Get returns the override for recordID.
func (o *Overrides) Get(recordID string) (string, bool) {
	if o == nil {
		return "", false
	}
	c, ok := o.byID[recordID]
	return c, ok
}

// Len returns the number of overrides.
func (o *Overrides) Len() int {
	if o == nil {
		return 0
	}
	return len(o.byID)
}

// IDs returns the overridden record IDs in sorted order.
func (o *Overrides) IDs() []string {
	if o == nil {
		return nil
	}
	ids := make([]string, 0, len(o.byID))
	for k := range o.byID {
		ids = append(ids, k)
	}
	sort.Strings(ids)
	return ids
}

// Resolve returns the destination of r: the override when one exists,
// otherwise the automatic classification. "" means uncategorized. A nil
// *Overrides resolves to the automatic classification.
func (o *Overrides) Resolve(r model.BankRecord) string {
	if c, ok := o.Get(r.ID); ok {
		return c
	}
	return r.Destination
}

// Stale returns override IDs that match none of records, in sorted order.
func (o *Overrides) Stale(records []model.BankRecord) []string {
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		seen[r.ID] = true
	}
	var stale []string
	for _, k := range o.IDs() {
		if !seen[k] {
			stale = append(stale, k)
		}
	}
	return stale
}
