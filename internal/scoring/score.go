// Package scoring converts gap lists and critique text into a bounded
// confidence score, classifies the score into an outcome, and selects the
// clarifying questions to surface to the caller.
package scoring

import (
	"strings"

	"github.com/JaimeStill/reqguard/internal/checklist"
)

// Score blends rule-based gap deductions with a flat critique sentiment
// penalty. The rule score starts at 1.0 and loses a per-severity deduction
// for each gap, clamped at zero; the sentiment penalty for the harshest
// matching phrase tier is then subtracted. The result always lies in [0, 1].
func (c *Config) Score(gaps []checklist.Gap, critique string) float64 {
	rule := 1.0
	for _, gap := range gaps {
		rule -= c.deduction(gap.Severity)
	}
	rule = max(rule, 0)

	final := rule - c.sentimentPenalty(critique)

	return min(max(final, 0), 1)
}

func (c *Config) sentimentPenalty(critique string) float64 {
	lower := strings.ToLower(critique)

	for _, phrase := range severePhrases {
		if strings.Contains(lower, phrase) {
			return c.SeverePenalty
		}
	}
	for _, phrase := range moderatePhrases {
		if strings.Contains(lower, phrase) {
			return c.ModeratePenalty
		}
	}

	return 0
}
