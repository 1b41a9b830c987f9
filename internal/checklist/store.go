package checklist

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed defs/checklists.yaml
var defaultDefs []byte

// DefaultLoanType is assumed when no trigger phrase matches.
const DefaultLoanType = "Conventional"

type trigger struct {
	Type    string   `yaml:"type"`
	Phrases []string `yaml:"phrases"`
}

type extension struct {
	Type     string   `yaml:"type"`
	Category Category `yaml:"category"`
}

type definitions struct {
	Triggers   []trigger   `yaml:"triggers"`
	Categories []Category  `yaml:"categories"`
	Extensions []extension `yaml:"extensions"`
}

// Store holds immutable checklist definitions: detection triggers, base
// categories shared by every loan type, and per-type extension categories.
type Store struct {
	triggers   []trigger
	base       []Category
	extensions []extension
}

// NewStore loads the embedded default checklist definitions.
func NewStore() (*Store, error) {
	return Parse(defaultDefs)
}

// Parse decodes and validates checklist definitions from YAML.
func Parse(data []byte) (*Store, error) {
	var defs definitions
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parse checklist definitions: %w", err)
	}

	if len(defs.Triggers) == 0 {
		return nil, fmt.Errorf("checklist definitions: no triggers")
	}
	for _, t := range defs.Triggers {
		if t.Type == "" || len(t.Phrases) == 0 {
			return nil, fmt.Errorf("checklist definitions: trigger missing type or phrases")
		}
	}

	if len(defs.Categories) == 0 {
		return nil, fmt.Errorf("checklist definitions: no categories")
	}
	for _, c := range defs.Categories {
		if err := validateCategory(c); err != nil {
			return nil, fmt.Errorf("checklist definitions: %w", err)
		}
	}
	for _, e := range defs.Extensions {
		if e.Type == "" {
			return nil, fmt.Errorf("checklist definitions: extension missing type")
		}
		if err := validateCategory(e.Category); err != nil {
			return nil, fmt.Errorf("checklist definitions: extension %s: %w", e.Type, err)
		}
	}

	return &Store{
		triggers:   defs.Triggers,
		base:       defs.Categories,
		extensions: defs.Extensions,
	}, nil
}

// ForLoanType returns the base categories plus any extension category
// registered for the given loan type. The result is a fresh slice on every
// call; the shared definitions are never exposed for mutation.
func (s *Store) ForLoanType(loanType string) []Category {
	result := make([]Category, 0, len(s.base)+1)
	result = append(result, s.base...)

	for _, e := range s.extensions {
		if e.Type == loanType {
			result = append(result, e.Category)
		}
	}

	return result
}

// LoanTypes returns the known loan type tags in declaration order.
func (s *Store) LoanTypes() []string {
	types := make([]string, len(s.triggers))
	for i, t := range s.triggers {
		types[i] = t.Type
	}
	return types
}
