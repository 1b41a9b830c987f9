package workflow_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/reqguard/internal/agent"
	"github.com/JaimeStill/reqguard/internal/checklist"
	"github.com/JaimeStill/reqguard/internal/prompts"
	"github.com/JaimeStill/reqguard/internal/scoring"
	"github.com/JaimeStill/reqguard/internal/workflow"
)

type mockAgent struct {
	CompleteFunc func(ctx context.Context, req agent.Request) (string, error)
}

func (m *mockAgent) Complete(ctx context.Context, req agent.Request) (string, error) {
	return m.CompleteFunc(ctx, req)
}

func (m *mockAgent) Model() string { return "mock" }

type staticPrompts struct{}

func (staticPrompts) Instructions(_ context.Context, stage prompts.Stage) (string, error) {
	return prompts.Instructions(stage)
}

func (staticPrompts) Spec(_ context.Context, stage prompts.Stage) (string, error) {
	return prompts.Spec(stage)
}

// verdicts extracts the item keys from a verification prompt and answers
// each with the given verdict.
func verdicts(user, verdict string) string {
	result := make(map[string]string)
	for _, line := range strings.Split(user, "\n") {
		if !strings.HasPrefix(line, "- ") {
			continue
		}
		key, _, ok := strings.Cut(strings.TrimPrefix(line, "- "), ":")
		if !ok {
			continue
		}
		result[key] = verdict
	}

	raw, _ := json.Marshal(result)
	return string(raw)
}

func newRuntime(t *testing.T, backend agent.System) *workflow.Runtime {
	t.Helper()

	checklists, err := checklist.NewStore()
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}

	var cfg scoring.Config
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	return &workflow.Runtime{
		Agent:         backend,
		Checklists:    checklists,
		Prompts:       staticPrompts{},
		Scoring:       cfg,
		Store:         workflow.NewMemoryStore(),
		MaxIterations: 3,
		PrefixLimit:   4000,
	}
}

// coveringAgent answers YES to every checklist item and returns a benign
// critique, driving threads to a complete outcome on the first pass.
func coveringAgent(critique string) *mockAgent {
	return &mockAgent{
		CompleteFunc: func(_ context.Context, req agent.Request) (string, error) {
			if req.JSONResponse {
				return verdicts(req.User, "YES"), nil
			}
			return critique, nil
		},
	}
}

// gapAgent answers NO to every checklist item, forcing clarify outcomes.
func gapAgent() *mockAgent {
	return &mockAgent{
		CompleteFunc: func(_ context.Context, req agent.Request) (string, error) {
			if req.JSONResponse {
				return verdicts(req.User, "NO"), nil
			}
			return "Structured requirements.", nil
		},
	}
}

func TestStartCompleteTerminates(t *testing.T) {
	rt := newRuntime(t, coveringAgent("Looks thorough."))

	state, err := rt.Start(context.Background(), uuid.New(), "Build an FHA loan origination system.")
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	if state.Phase != workflow.PhaseDone {
		t.Errorf("Phase = %q, want done", state.Phase)
	}
	if state.Reason != workflow.ReasonEnd {
		t.Errorf("Reason = %q, want end", state.Reason)
	}
	if state.Outcome != scoring.OutcomeComplete {
		t.Errorf("Outcome = %q, want complete", state.Outcome)
	}
	if state.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", state.Confidence)
	}
	if len(state.Critic.Gaps) != 0 {
		t.Errorf("Gaps = %d, want 0", len(state.Critic.Gaps))
	}
	if state.Iteration != 1 {
		t.Errorf("Iteration = %d, want 1", state.Iteration)
	}
	if state.Author.LoanClassification.PrimaryType != "FHA" {
		t.Errorf("PrimaryType = %q, want FHA", state.Author.LoanClassification.PrimaryType)
	}
}

func TestStartSuspendsAtGate(t *testing.T) {
	rt := newRuntime(t, gapAgent())

	state, err := rt.Start(context.Background(), uuid.New(), "Build an FHA loan origination system.")
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	if !state.Suspended() {
		t.Fatalf("Phase = %q, want gate", state.Phase)
	}
	if state.Outcome != scoring.OutcomeClarify {
		t.Errorf("Outcome = %q, want clarify", state.Outcome)
	}
	if len(state.Critic.Gaps) == 0 {
		t.Error("expected gaps when every verdict is NO")
	}
	if len(state.Questions) == 0 {
		t.Error("expected clarifying questions")
	}

	loaded, err := rt.Store.Load(context.Background(), state.ThreadID)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Phase != workflow.PhaseGate {
		t.Errorf("persisted Phase = %q, want gate", loaded.Phase)
	}
}

func TestResumeApprove(t *testing.T) {
	rt := newRuntime(t, gapAgent())

	state, err := rt.Start(context.Background(), uuid.New(), "Build an FHA loan origination system.")
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	resumed, err := rt.Resume(context.Background(), state.ThreadID, workflow.Decision{
		Approved: true,
		Feedback: "acceptable for a prototype",
	})
	if err != nil {
		t.Fatalf("Resume() error: %v", err)
	}

	if resumed.Phase != workflow.PhaseDone || resumed.Reason != workflow.ReasonEnd {
		t.Errorf("Phase/Reason = %q/%q, want done/end", resumed.Phase, resumed.Reason)
	}
	if !resumed.Approved {
		t.Error("Approved should be true")
	}
	if resumed.HumanFeedback != "acceptable for a prototype" {
		t.Errorf("HumanFeedback = %q", resumed.HumanFeedback)
	}
	if resumed.Iteration != 1 {
		t.Errorf("Iteration = %d, want 1 (approval runs no further passes)", resumed.Iteration)
	}
}

func TestResumeRejectRevises(t *testing.T) {
	rt := newRuntime(t, gapAgent())

	state, err := rt.Start(context.Background(), uuid.New(), "Build an FHA loan origination system.")
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	resumed, err := rt.Resume(context.Background(), state.ThreadID, workflow.Decision{
		Approved: false,
		Feedback: "Specify DTI thresholds and credit score minimums.",
	})
	if err != nil {
		t.Fatalf("Resume() error: %v", err)
	}

	if !strings.HasSuffix(
		resumed.RawRequirements,
		"\n\nAdditional context: Specify DTI thresholds and credit score minimums.",
	) {
		t.Errorf("RawRequirements missing appended feedback: %q", resumed.RawRequirements)
	}
	if resumed.Approved {
		t.Error("Approved should be reset on rejection")
	}
	if resumed.Iteration != 2 {
		t.Errorf("Iteration = %d, want 2", resumed.Iteration)
	}
	if resumed.Phase != workflow.PhaseGate {
		t.Errorf("Phase = %q, want gate (still incomplete below cap)", resumed.Phase)
	}
}

func TestEscalatesAtIterationCap(t *testing.T) {
	rt := newRuntime(t, gapAgent())

	state, err := rt.Start(context.Background(), uuid.New(), "Build an FHA loan origination system.")
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	reject := workflow.Decision{Approved: false, Feedback: "still missing details"}

	second, err := rt.Resume(context.Background(), state.ThreadID, reject)
	if err != nil {
		t.Fatalf("second pass error: %v", err)
	}
	if second.Phase != workflow.PhaseGate {
		t.Fatalf("second pass Phase = %q, want gate", second.Phase)
	}

	third, err := rt.Resume(context.Background(), state.ThreadID, reject)
	if err != nil {
		t.Fatalf("third pass error: %v", err)
	}

	if third.Phase != workflow.PhaseDone {
		t.Errorf("Phase = %q, want done", third.Phase)
	}
	if third.Reason != workflow.ReasonEscalate {
		t.Errorf("Reason = %q, want escalate", third.Reason)
	}
	if third.Iteration != 3 {
		t.Errorf("Iteration = %d, want 3", third.Iteration)
	}
	if !third.Escalated() {
		t.Error("Escalated() should be true")
	}

	// a fourth decision must be rejected: the thread is terminal
	if _, err := rt.Resume(context.Background(), state.ThreadID, reject); !errors.Is(err, workflow.ErrNotSuspended) {
		t.Errorf("fourth Resume error = %v, want ErrNotSuspended", err)
	}
}

func TestResumeUnknownThread(t *testing.T) {
	rt := newRuntime(t, gapAgent())

	_, err := rt.Resume(context.Background(), uuid.New(), workflow.Decision{Approved: true})
	if !errors.Is(err, workflow.ErrThreadNotFound) {
		t.Errorf("Resume() error = %v, want ErrThreadNotFound", err)
	}
}

func TestResumeTerminalThread(t *testing.T) {
	rt := newRuntime(t, coveringAgent("Complete and well specified."))

	state, err := rt.Start(context.Background(), uuid.New(), "Build an FHA loan origination system.")
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	_, err = rt.Resume(context.Background(), state.ThreadID, workflow.Decision{Approved: true})
	if !errors.Is(err, workflow.ErrNotSuspended) {
		t.Errorf("Resume() error = %v, want ErrNotSuspended", err)
	}
}

func TestUnrecognizedVerdictIsGap(t *testing.T) {
	backend := &mockAgent{
		CompleteFunc: func(_ context.Context, req agent.Request) (string, error) {
			if req.JSONResponse {
				return verdicts(req.User, "UNKNOWN"), nil
			}
			return "Hard to say.", nil
		},
	}
	rt := newRuntime(t, backend)

	state, err := rt.Start(context.Background(), uuid.New(), "Build an FHA loan origination system.")
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	if len(state.Critic.Gaps) == 0 {
		t.Error("UNKNOWN verdicts should count as gaps")
	}
}

func TestVerdictWhitespaceAndCase(t *testing.T) {
	backend := &mockAgent{
		CompleteFunc: func(_ context.Context, req agent.Request) (string, error) {
			if req.JSONResponse {
				return verdicts(req.User, "  yes \n"), nil
			}
			return "Thorough.", nil
		},
	}
	rt := newRuntime(t, backend)

	state, err := rt.Start(context.Background(), uuid.New(), "Build an FHA loan origination system.")
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	if len(state.Critic.Gaps) != 0 {
		t.Errorf("Gaps = %d, want 0 (verdicts are trimmed and case folded)", len(state.Critic.Gaps))
	}
}

func TestGapCheckFallback(t *testing.T) {
	backend := &mockAgent{
		CompleteFunc: func(_ context.Context, req agent.Request) (string, error) {
			if req.JSONResponse {
				return "", errors.New("backend unavailable")
			}
			// echo the requirements so the keyword scan sees the raw text
			return req.User, nil
		},
	}
	rt := newRuntime(t, backend)

	raw := "A loan type and loan amount are defined, nothing else."
	state, err := rt.Start(context.Background(), uuid.New(), raw)
	if err != nil {
		t.Fatalf("Start() error: %v (verification failures must degrade, not fail)", err)
	}

	if len(state.Critic.Gaps) == 0 {
		t.Fatal("expected gaps from the keyword fallback")
	}

	for _, gap := range state.Critic.Gaps {
		needle := strings.ReplaceAll(gap.Key, "_", " ")
		if strings.Contains(strings.ToLower(state.Author.StructuredRequirements), needle) {
			t.Errorf("item %q is mentioned in the text and should not be a gap", gap.Key)
		}
	}
}

func TestAuthorFailure(t *testing.T) {
	backend := &mockAgent{
		CompleteFunc: func(_ context.Context, req agent.Request) (string, error) {
			return "", errors.New("backend unavailable")
		},
	}
	rt := newRuntime(t, backend)

	_, err := rt.Start(context.Background(), uuid.New(), "Build an FHA loan origination system.")
	if !errors.Is(err, workflow.ErrAuthorFailed) {
		t.Errorf("Start() error = %v, want ErrAuthorFailed", err)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := workflow.NewMemoryStore()

	state := workflow.NewState(uuid.New(), "raw text")
	state.Phase = workflow.PhaseGate
	state.Confidence = 0.42
	state.Iteration = 2
	state.Questions = []scoring.Question{
		{Question: "What is the loan amount?", Severity: checklist.SeverityCritical, Category: "loan_product"},
	}

	if err := store.Save(context.Background(), state); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := store.Load(context.Background(), state.ThreadID)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if loaded.Phase != state.Phase ||
		loaded.Confidence != state.Confidence ||
		loaded.Iteration != state.Iteration ||
		loaded.RawRequirements != state.RawRequirements {
		t.Errorf("Load() = %+v, want %+v", loaded, state)
	}
	if len(loaded.Questions) != 1 {
		t.Fatalf("Questions = %d, want 1", len(loaded.Questions))
	}

	if _, err := store.Load(context.Background(), uuid.New()); !errors.Is(err, workflow.ErrThreadNotFound) {
		t.Errorf("Load(unknown) error = %v, want ErrThreadNotFound", err)
	}
}
