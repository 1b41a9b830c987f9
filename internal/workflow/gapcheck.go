package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/reqguard/internal/agent"
	"github.com/JaimeStill/reqguard/internal/checklist"
	"github.com/JaimeStill/reqguard/internal/prompts"
	"github.com/JaimeStill/reqguard/pkg/formatting"
)

// checkGaps verifies the structured requirements against every checklist
// category for the detected loan type. Each category is a single completion
// call in JSON mode at temperature zero; when the backend call or its output
// cannot be used, the category degrades to a keyword scan instead of failing
// the workflow.
func (rt *Runtime) checkGaps(ctx context.Context, state *AnalysisState) ([]checklist.Gap, error) {
	system, err := rt.composePrompt(ctx, prompts.StageGapCheck)
	if err != nil {
		return nil, err
	}

	requirements := rt.truncate(state.Author.StructuredRequirements)
	categories := rt.Checklists.ForLoanType(state.Author.LoanClassification.PrimaryType)

	var gaps []checklist.Gap
	for _, category := range categories {
		verdicts, err := rt.categoryVerdicts(ctx, system, requirements, category)
		if err != nil {
			rt.logger().Warn("checklist verification degraded to keyword scan",
				"module", "workflow",
				"thread", state.ThreadID,
				"category", category.Name,
				"error", err,
			)
			gaps = append(gaps, fallbackGaps(category, requirements)...)
			continue
		}

		for _, item := range category.Items {
			if !covered(verdicts, item.Key) {
				gaps = append(gaps, checklist.Gap{
					Category:    category.Name,
					Key:         item.Key,
					Description: item.Description,
					Severity:    item.Severity,
					Question:    item.Question,
				})
			}
		}
	}

	return gaps, nil
}

// categoryVerdicts asks the backend for a key → YES/NO verdict map covering
// every item in the category.
func (rt *Runtime) categoryVerdicts(ctx context.Context, system, requirements string, category checklist.Category) (map[string]string, error) {
	var items strings.Builder
	for _, item := range category.Items {
		fmt.Fprintf(&items, "- %s: %s\n", item.Key, item.Description)
	}

	user := fmt.Sprintf(
		"Checklist category: %s\n\nItems to verify:\n%s\nRequirements document:\n%s",
		category.Name,
		items.String(),
		requirements,
	)

	zero := float32(0)
	response, err := rt.Agent.Complete(ctx, agent.Request{
		System:       system,
		User:         user,
		Temperature:  &zero,
		JSONResponse: true,
	})
	if err != nil {
		return nil, err
	}

	verdicts, err := formatting.Parse[map[string]string](response)
	if err != nil {
		return nil, err
	}

	return verdicts, nil
}

// covered treats only an explicit YES verdict as coverage. A missing key or
// any other token, including hedges like UNKNOWN, counts as a gap.
func covered(verdicts map[string]string, key string) bool {
	verdict, ok := verdicts[key]
	if !ok {
		return false
	}
	return strings.ToUpper(strings.TrimSpace(verdict)) == "YES"
}

// fallbackGaps scans the requirements text for each item's key with
// underscores read as spaces. Crude, but it keeps a degraded run biased
// toward reporting gaps rather than silently passing items.
func fallbackGaps(category checklist.Category, requirements string) []checklist.Gap {
	lowered := strings.ToLower(requirements)

	var gaps []checklist.Gap
	for _, item := range category.Items {
		needle := strings.ReplaceAll(item.Key, "_", " ")
		if strings.Contains(lowered, needle) {
			continue
		}
		gaps = append(gaps, checklist.Gap{
			Category:    category.Name,
			Key:         item.Key,
			Description: item.Description,
			Severity:    item.Severity,
			Question:    item.Question,
		})
	}

	return gaps
}
