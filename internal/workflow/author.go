package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/reqguard/internal/agent"
	"github.com/JaimeStill/reqguard/internal/prompts"
)

// runAuthor classifies the loan type and structures the raw requirements
// into the sectioned document the critic reviews. On completion the thread
// advances to the critic phase.
func (rt *Runtime) runAuthor(ctx context.Context, state *AnalysisState) error {
	classification := rt.Checklists.Detect(state.RawRequirements)

	system, err := rt.composePrompt(ctx, prompts.StageAuthor)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAuthorFailed, err)
	}

	user := fmt.Sprintf(
		"Detected loan type: %s (confidence %.2f)\n\nRaw requirements:\n%s",
		classification.PrimaryType,
		classification.Confidence,
		state.RawRequirements,
	)

	structured, err := rt.Agent.Complete(ctx, agent.Request{
		System: system,
		User:   user,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAuthorFailed, err)
	}

	state.Author = &AuthorOutput{
		LoanClassification:     classification,
		StructuredRequirements: structured,
	}
	state.Phase = PhaseCritic

	rt.logger().Info("author stage complete",
		"module", "workflow",
		"thread", state.ThreadID,
		"loan_type", classification.PrimaryType,
		"confidence", classification.Confidence,
		"iteration", state.Iteration,
	)

	return nil
}
