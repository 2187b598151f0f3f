package classify

import "strings"

// Classifier applies an ordered rule list. It is safe for concurrent use.
type Classifier struct {
	rules []Rule
}

// New returns a Classifier for rules. Keywords are lowercased and blank
// keywords dropped; rule order is kept.
func New(rules []Rule) *Classifier {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		kw := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				kw = append(kw, k)
			}
		}
		out = append(out, Rule{Category: r.Category, Keywords: kw})
	}
	return &Classifier{rules: out}
}

// Default returns a Classifier using DefaultRules.
func Default() *Classifier {
	return New(DefaultRules())
}

// Classify returns the category of the first rule with a keyword found in
// the combined text, or "" when no rule matches.
func (c *Classifier) Classify(remark, entity, details string) string {
	text := strings.ToLower(remark + " " + entity + " " + details)
	for _, r := range c.rules {
		for _, k := range r.Keywords {
			if strings.Contains(text, k) {
				return r.Category
			}
		}
	}
	return ""
}

// Rules returns the normalized rule list.
func (c *Classifier) Rules() []Rule {
	return c.rules
}
