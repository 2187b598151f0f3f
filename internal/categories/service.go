package categories

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ghostledger/ghostledger/internal/model"
)

// Service provides in-memory lookup over the destination vocabulary.
type Service struct {
	cats   []model.Category
	byName map[string]model.Category
	norm   []string // normalized names, parallel to cats
}

// NewService creates a Service from a slice of categories.
func NewService(cats []model.Category) *Service {
	byName := make(map[string]model.Category, len(cats))
	norm := make([]string, len(cats))
	for i, c := range cats {
		byName[c.Name] = c
		norm[i] = Normalize(c.Name)
	}
	return &Service{cats: cats, byName: byName, norm: norm}
}

// Path returns the location of the vocabulary file in a workspace.
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, "categories", "categories.csv")
}

// Load reads categories/categories.csv from a workspace and returns a Service.
func Load(repoRoot string) (*Service, error) {
	f, err := os.Open(Path(repoRoot))
	if err != nil {
		return nil, fmt.Errorf("opening categories: %w", err)
	}
	defer f.Close()

	cats, err := ReadCategories(f)
	if err != nil {
		return nil, fmt.Errorf("reading categories: %w", err)
	}
	return NewService(cats), nil
}

// All returns all categories.
func (s *Service) All() []model.Category {
	return s.cats
}

// Get returns a category by exact name.
func (s *Service) Get(name string) (model.Category, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// Exists reports whether a category name exists.
func (s *Service) Exists(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// ByType returns all categories of the given type.
func (s *Service) ByType(t model.CategoryType) []model.Category {
	var result []model.Category
	for _, c := range s.cats {
		if c.Type == t {
			result = append(result, c)
		}
	}
	return result
}

// Match finds the category a free-text label refers to. Labels are compared
// after Normalize; an exact match wins, otherwise the first category whose
// name contains the label, or is contained in it, is returned.
func (s *Service) Match(label string) (model.Category, bool) {
	n := Normalize(label)
	if n == "" {
		return model.Category{}, false
	}
	for i, c := range s.norm {
		if c == n {
			return s.cats[i], true
		}
	}
	for i, c := range s.norm {
		if strings.Contains(n, c) || strings.Contains(c, n) {
			return s.cats[i], true
		}
	}
	return model.Category{}, false
}

var separators = regexp.MustCompile(`[\s-]+`)

// Normalize lowercases s and collapses runs of spaces and hyphens, so
// "Kitchen- Miscellaneous expense" equals "Kitchen - Miscellaneous expense".
func Normalize(s string) string {
	return strings.TrimSpace(separators.ReplaceAllString(strings.ToLower(s), " "))
}

// Save writes the vocabulary to categories/categories.csv.
func (s *Service) Save(repoRoot string) error {
	path := Path(repoRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating categories dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating categories file: %w", err)
	}
	defer f.Close()

	if err := WriteCategories(f, s.cats); err != nil {
		return fmt.Errorf("writing categories: %w", err)
	}
	return nil
}
