// Package workflow implements the author → critic → gate analysis pipeline
// as an explicit state machine with a serializable checkpoint. The gate is
// not a blocked goroutine: execution stops before the gate phase, the
// checkpoint is persisted, and a later Resume call picks the thread back up,
// possibly in another process against a shared store.
package workflow

import (
	"github.com/google/uuid"

	"github.com/JaimeStill/reqguard/internal/checklist"
	"github.com/JaimeStill/reqguard/internal/scoring"
)

// Phase identifies the next node the engine will execute for a thread.
type Phase string

// Workflow phases. A thread enters at author and terminates at done.
const (
	PhaseAuthor Phase = "author"
	PhaseCritic Phase = "critic"
	PhaseGate   Phase = "gate"
	PhaseDone   Phase = "done"
)

// Reason qualifies the done phase: a normal end, or an escalation to an
// operator after the iteration cap was reached without approval.
type Reason string

// Terminal reasons.
const (
	ReasonEnd      Reason = "end"
	ReasonEscalate Reason = "escalate"
)

// AuthorOutput holds the results of the author node.
type AuthorOutput struct {
	LoanClassification     checklist.LoanClassification `json:"loan_classification"`
	StructuredRequirements string                       `json:"structured_requirements"`
}

// CriticOutput holds the results of the critic node.
type CriticOutput struct {
	Gaps     []checklist.Gap `json:"gaps"`
	Critique string          `json:"critique"`
}

// AnalysisState is the serializable checkpoint threaded through the
// workflow. It is persisted on every node transition so that suspension at
// the gate and later resumption reconstruct the thread exactly.
type AnalysisState struct {
	ThreadID        uuid.UUID          `json:"thread_id"`
	Phase           Phase              `json:"phase"`
	Reason          Reason             `json:"reason,omitempty"`
	RawRequirements string             `json:"raw_requirements"`
	Author          *AuthorOutput      `json:"author,omitempty"`
	Critic          *CriticOutput      `json:"critic,omitempty"`
	Confidence      float64            `json:"confidence"`
	Outcome         scoring.Outcome    `json:"outcome,omitempty"`
	Questions       []scoring.Question `json:"questions,omitempty"`
	HumanFeedback   string             `json:"human_feedback,omitempty"`
	Iteration       int                `json:"iteration"`
	Approved        bool               `json:"approved"`
}

// NewState creates the initial checkpoint for a thread.
func NewState(threadID uuid.UUID, rawRequirements string) *AnalysisState {
	return &AnalysisState{
		ThreadID:        threadID,
		Phase:           PhaseAuthor,
		RawRequirements: rawRequirements,
	}
}

// Suspended reports whether the thread is paused at the gate awaiting a
// human decision.
func (s *AnalysisState) Suspended() bool {
	return s.Phase == PhaseGate
}

// Terminal reports whether the thread has finished.
func (s *AnalysisState) Terminal() bool {
	return s.Phase == PhaseDone
}

// Escalated reports whether the thread terminated by exhausting its
// iteration budget without approval.
func (s *AnalysisState) Escalated() bool {
	return s.Phase == PhaseDone && s.Reason == ReasonEscalate
}
