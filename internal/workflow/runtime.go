package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/reqguard/internal/agent"
	"github.com/JaimeStill/reqguard/internal/checklist"
	"github.com/JaimeStill/reqguard/internal/prompts"
	"github.com/JaimeStill/reqguard/internal/scoring"
)

// PromptSource resolves the system prompt pieces for a workflow stage.
// The prompts domain system satisfies this; callers without a database can
// supply the hardcoded defaults directly.
type PromptSource interface {
	Instructions(ctx context.Context, stage prompts.Stage) (string, error)
	Spec(ctx context.Context, stage prompts.Stage) (string, error)
}

// Runtime bundles the collaborators a workflow execution needs. It is
// assembled once at startup and shared across threads; all fields are
// read-only after construction.
type Runtime struct {
	Agent         agent.System
	Checklists    *checklist.Store
	Prompts       PromptSource
	Scoring       scoring.Config
	Store         Store
	MaxIterations int
	PrefixLimit   int
	Logger        *slog.Logger
}

func (rt *Runtime) logger() *slog.Logger {
	if rt.Logger != nil {
		return rt.Logger
	}
	return slog.Default()
}

// composePrompt assembles the system prompt for a stage from its active
// instructions and the stage output contract.
func (rt *Runtime) composePrompt(ctx context.Context, stage prompts.Stage) (string, error) {
	instructions, err := rt.Prompts.Instructions(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s instructions: %w", stage, err)
	}

	spec, err := rt.Prompts.Spec(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s output contract: %w", stage, err)
	}

	return instructions + "\n\n" + spec, nil
}

// truncate limits requirements text sent to the backend to the configured
// prefix. Checklist prompts do not need the full document to verify
// individual items, and unbounded submissions would blow the context window.
func (rt *Runtime) truncate(text string) string {
	if rt.PrefixLimit > 0 && len(text) > rt.PrefixLimit {
		return text[:rt.PrefixLimit]
	}
	return text
}
