package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Decision carries a reviewer's verdict on a suspended thread.
type Decision struct {
	Approved bool   `json:"approved"`
	Feedback string `json:"feedback,omitempty"`
}

// Start creates a new thread for the submitted requirements and runs it
// until it suspends at the gate or terminates.
func (rt *Runtime) Start(ctx context.Context, threadID uuid.UUID, rawRequirements string) (*AnalysisState, error) {
	state := NewState(threadID, rawRequirements)

	if err := rt.Store.Save(ctx, state); err != nil {
		return nil, err
	}

	return rt.run(ctx, state)
}

// Resume applies a reviewer decision to a thread suspended at the gate.
// Approval terminates the thread; rejection folds the feedback into the
// requirements and re-enters the author for another pass.
func (rt *Runtime) Resume(ctx context.Context, threadID uuid.UUID, decision Decision) (*AnalysisState, error) {
	state, err := rt.Store.Load(ctx, threadID)
	if err != nil {
		return nil, err
	}

	if !state.Suspended() {
		return nil, fmt.Errorf("%w: thread %s is in phase %s", ErrNotSuspended, threadID, state.Phase)
	}

	state.HumanFeedback = decision.Feedback

	if decision.Approved {
		state.Approved = true
		state.Phase = PhaseDone
		state.Reason = ReasonEnd

		if err := rt.Store.Save(ctx, state); err != nil {
			return nil, err
		}

		rt.logger().Info("thread approved",
			"module", "workflow",
			"thread", state.ThreadID,
			"iteration", state.Iteration,
		)

		return state, nil
	}

	if decision.Feedback != "" {
		state.RawRequirements += "\n\nAdditional context: " + decision.Feedback
	}
	state.Approved = false
	state.Phase = PhaseAuthor

	rt.logger().Info("thread rejected, revising",
		"module", "workflow",
		"thread", state.ThreadID,
		"iteration", state.Iteration,
	)

	return rt.run(ctx, state)
}

// run drives the state machine until the thread suspends or terminates,
// persisting the checkpoint after every node.
func (rt *Runtime) run(ctx context.Context, state *AnalysisState) (*AnalysisState, error) {
	for {
		switch state.Phase {
		case PhaseAuthor:
			if err := rt.runAuthor(ctx, state); err != nil {
				return nil, err
			}
		case PhaseCritic:
			if err := rt.runCritic(ctx, state); err != nil {
				return nil, err
			}
		case PhaseGate, PhaseDone:
			if err := rt.Store.Save(ctx, state); err != nil {
				return nil, err
			}
			return state, nil
		default:
			return nil, fmt.Errorf("unknown workflow phase: %s", state.Phase)
		}

		if err := rt.Store.Save(ctx, state); err != nil {
			return nil, err
		}
	}
}
