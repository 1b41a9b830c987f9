package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/reqguard/internal/agent"
	"github.com/JaimeStill/reqguard/internal/prompts"
	"github.com/JaimeStill/reqguard/internal/scoring"
)

// runCritic verifies the checklist, writes the adversarial critique, scores
// the thread, and routes it: terminate, escalate, or suspend at the gate.
func (rt *Runtime) runCritic(ctx context.Context, state *AnalysisState) error {
	gaps, err := rt.checkGaps(ctx, state)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCriticFailed, err)
	}

	system, err := rt.composePrompt(ctx, prompts.StageCritic)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCriticFailed, err)
	}

	var summary strings.Builder
	if len(gaps) == 0 {
		summary.WriteString("No checklist gaps were detected.\n")
	} else {
		summary.WriteString("Checklist gaps:\n")
		for _, gap := range gaps {
			fmt.Fprintf(&summary, "- [%s] %s: %s\n", gap.Severity, gap.Category, gap.Description)
		}
	}

	user := fmt.Sprintf(
		"%s\nStructured requirements:\n%s",
		summary.String(),
		rt.truncate(state.Author.StructuredRequirements),
	)

	critique, err := rt.Agent.Complete(ctx, agent.Request{
		System: system,
		User:   user,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCriticFailed, err)
	}

	state.Critic = &CriticOutput{
		Gaps:     gaps,
		Critique: critique,
	}
	state.Confidence = rt.Scoring.Score(gaps, critique)
	state.Outcome = rt.Scoring.Classify(state.Confidence)
	state.Questions = rt.Scoring.Questions(gaps)
	state.Iteration++

	rt.route(state)

	rt.logger().Info("critic stage complete",
		"module", "workflow",
		"thread", state.ThreadID,
		"gaps", len(gaps),
		"confidence", state.Confidence,
		"outcome", state.Outcome,
		"iteration", state.Iteration,
		"phase", state.Phase,
	)

	return nil
}

// route decides where the thread goes after the critic. Human approval and
// the iteration cap are checked before the score so a reviewer's decision is
// never overridden and a stuck thread always escalates.
func (rt *Runtime) route(state *AnalysisState) {
	switch {
	case state.Approved:
		state.Phase = PhaseDone
		state.Reason = ReasonEnd
	case state.Iteration >= rt.MaxIterations:
		state.Phase = PhaseDone
		state.Reason = ReasonEscalate
	case state.Outcome == scoring.OutcomeComplete:
		state.Phase = PhaseDone
		state.Reason = ReasonEnd
	default:
		state.Phase = PhaseGate
	}
}
