// Package classify assigns bank transactions to destination categories.
//
// Classification is keyword based: the remark, entity and details of a line
// are lowercased and tested against an ordered rule list, and the first rule
// with a keyword contained in the text wins. Keywords are plain substrings,
// so "ice" also matches "invoice" and "service"; rule order decides such
// collisions.
package classify

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule maps any of its keywords to one category.
type Rule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// RuleFile is the on-disk shape of rules/categorization-rules.yaml.
type RuleFile struct {
	Rules []Rule `yaml:"rules"`
}

// DefaultRules returns the built-in rule list in priority order.
func DefaultRules() []Rule {
	return []Rule{
		{Category: "Sales Revenue", Keywords: []string{"back street", "backstreet", "pos", "sale"}},
		{Category: "Rental Expense", Keywords: []string{"rent"}},
		{Category: "Payroll Expense", Keywords: []string{"payroll", "salary"}},
		{Category: "Electricity expense", Keywords: []string{"electric"}},
		{Category: "Internet Expense", Keywords: []string{"internet", "wifi"}},
		{Category: "Monthly Tax expense", Keywords: []string{"tax"}},
		{Category: "Cost of Beer and liquor", Keywords: []string{"beer", "liquor", "alcohol"}},
		{Category: "Kitchen expense - BSB", Keywords: []string{"kitchen", "food"}},
		{Category: "Ice expense", Keywords: []string{"ice"}},
		{Category: "Gas expense", Keywords: []string{"gas"}},
		{Category: "Water expense", Keywords: []string{"water"}},
		{Category: "Cleaning expense", Keywords: []string{"clean"}},
		{Category: "Flower expense", Keywords: []string{"flower"}},
		{Category: "Grocery expense", Keywords: []string{"grocery"}},
		{Category: "Maintenance expense", Keywords: []string{"maintenance", "repair"}},
		{Category: "Marketing expense", Keywords: []string{"marketing", "advert"}},
	}
}

// Vocabulary reports whether a category name is known.
type Vocabulary interface {
	Exists(name string) bool
}

// ValidateRules checks that every rule names a known category and has at
// least one non-blank keyword.
func ValidateRules(rules []Rule, vocab Vocabulary) error {
	var errs []error
	for i, r := range rules {
		if !vocab.Exists(r.Category) {
			errs = append(errs, fmt.Errorf("rule %d: unknown category %q", i+1, r.Category))
		}
		blank := true
		for _, k := range r.Keywords {
			if strings.TrimSpace(k) != "" {
				blank = false
				break
			}
		}
		if blank {
			errs = append(errs, fmt.Errorf("rule %d (%s): no keywords", i+1, r.Category))
		}
	}
	return errors.Join(errs...)
}

// RulesPath returns the location of the rule file in a workspace.
func RulesPath(repoRoot string) string {
	return filepath.Join(repoRoot, "rules", "categorization-rules.yaml")
}

// LoadRules reads a rule file. A missing file or an empty rule list yields
// DefaultRules.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultRules(), nil
		}
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	var rf RuleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	if len(rf.Rules) == 0 {
		return DefaultRules(), nil
	}
	return rf.Rules, nil
}

// SaveRules writes a rule file, creating its directory.
func SaveRules(path string, rules []Rule) error {
	data, err := yaml.Marshal(RuleFile{Rules: rules})
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating rules dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	return nil
}
