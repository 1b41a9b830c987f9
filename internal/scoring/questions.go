package scoring

import (
	"slices"

	"github.com/JaimeStill/reqguard/internal/checklist"
)

// Question is a user-facing clarifying question selected from a gap.
type Question struct {
	Question string             `json:"question"`
	Severity checklist.Severity `json:"severity"`
	Category string             `json:"category"`
}

// Questions selects up to MaxQuestions gaps as clarifying questions,
// most severe first. The sort is stable: gaps of equal severity keep
// their original category-then-item order.
func (c *Config) Questions(gaps []checklist.Gap) []Question {
	sorted := make([]checklist.Gap, len(gaps))
	copy(sorted, gaps)

	slices.SortStableFunc(sorted, func(a, b checklist.Gap) int {
		return a.Severity.Rank() - b.Severity.Rank()
	})

	limit := min(c.MaxQuestions, len(sorted))
	questions := make([]Question, 0, limit)
	for _, gap := range sorted[:limit] {
		questions = append(questions, Question{
			Question: gap.Question,
			Severity: gap.Severity,
			Category: gap.Category,
		})
	}

	return questions
}
