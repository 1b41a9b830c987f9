// Package analyses implements the analysis domain for ReqGuard. It provides
// types, data access, and business logic for submitting mortgage
// requirements, persisting workflow checkpoints, and applying reviewer
// decisions to suspended threads.
package analyses

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/reqguard/internal/workflow"
)

// Status summarizes where a thread sits in its lifecycle. It is derived from
// the workflow checkpoint on every save so the table can be filtered without
// unpacking the state column.
type Status string

// Analysis lifecycle statuses.
const (
	StatusAnalyzing      Status = "analyzing"
	StatusAwaitingReview Status = "awaiting_review"
	StatusCompleted      Status = "completed"
	StatusEscalated      Status = "escalated"
)

// Analysis represents a stored analysis thread. Summary columns are
// flattened from the checkpoint for querying; State carries the full
// workflow checkpoint.
type Analysis struct {
	ThreadID   uuid.UUID              `json:"thread_id"`
	Status     Status                 `json:"status"`
	LoanType   string                 `json:"loan_type"`
	Confidence float64                `json:"confidence"`
	Outcome    string                 `json:"outcome"`
	Iteration  int                    `json:"iteration"`
	State      workflow.AnalysisState `json:"state"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// SubmitCommand carries a raw requirements document for analysis.
type SubmitCommand struct {
	Requirements string `json:"requirements"`
}

// DecisionCommand carries reviewer feedback for an approve or reject
// decision. Feedback is optional on approval and required on rejection.
type DecisionCommand struct {
	Feedback string `json:"feedback,omitempty"`
}
