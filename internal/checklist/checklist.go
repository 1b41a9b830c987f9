// Package checklist implements the required-item checklist store and the
// loan-type detector for mortgage requirement documents. Definitions are
// loaded from embedded YAML at construction and never mutated afterward.
package checklist

import (
	"fmt"
	"slices"
)

// Severity ranks how damaging a missing checklist item is.
type Severity string

// Valid severities, most to least damaging.
const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

var severities = []Severity{
	SeverityCritical,
	SeverityHigh,
	SeverityMedium,
	SeverityLow,
}

// Rank returns the sort rank for a severity: critical 0 through low 3,
// with unknown values ranked last.
func (s Severity) Rank() int {
	if i := slices.Index(severities, s); i >= 0 {
		return i
	}
	return len(severities)
}

// Valid reports whether the severity is one of the known values.
func (s Severity) Valid() bool {
	return slices.Contains(severities, s)
}

// Item is a single required piece of information for a loan requirements
// document, with the clarifying question to ask when it is missing.
type Item struct {
	Key         string   `yaml:"key" json:"key"`
	Description string   `yaml:"description" json:"description"`
	Severity    Severity `yaml:"severity" json:"severity"`
	Question    string   `yaml:"question" json:"question"`
}

// Category groups checklist items. Slice order is the reporting order.
type Category struct {
	Name  string `yaml:"name" json:"name"`
	Items []Item `yaml:"items" json:"items"`
}

// Gap records a checklist item judged not addressed by a requirements text.
type Gap struct {
	Category    string   `json:"category"`
	Key         string   `json:"key"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Question    string   `json:"question"`
}

func validateCategory(c Category) error {
	if c.Name == "" {
		return fmt.Errorf("category name required")
	}
	if len(c.Items) == 0 {
		return fmt.Errorf("category %s: no items", c.Name)
	}

	seen := make(map[string]bool, len(c.Items))
	for _, item := range c.Items {
		if item.Key == "" {
			return fmt.Errorf("category %s: item key required", c.Name)
		}
		if seen[item.Key] {
			return fmt.Errorf("category %s: duplicate item key %s", c.Name, item.Key)
		}
		seen[item.Key] = true

		if !item.Severity.Valid() {
			return fmt.Errorf(
				"category %s: item %s: invalid severity %q",
				c.Name, item.Key, item.Severity,
			)
		}
		if item.Question == "" {
			return fmt.Errorf("category %s: item %s: question required", c.Name, item.Key)
		}
	}

	return nil
}
