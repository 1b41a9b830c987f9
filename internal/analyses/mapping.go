package analyses

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/JaimeStill/reqguard/pkg/query"
	"github.com/JaimeStill/reqguard/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "analyses", "a").
	Project("thread_id", "ThreadID").
	Project("status", "Status").
	Project("loan_type", "LoanType").
	Project("confidence", "Confidence").
	Project("outcome", "Outcome").
	Project("iteration", "Iteration").
	Project("state", "State").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for analysis queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	Status   *string `json:"status,omitempty"`
	LoanType *string `json:"loan_type,omitempty"`
	Outcome  *string `json:"outcome,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("LoanType", f.LoanType).
		WhereEquals("Outcome", f.Outcome)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if l := values.Get("loan_type"); l != "" {
		f.LoanType = &l
	}

	if o := values.Get("outcome"); o != "" {
		f.Outcome = &o
	}

	return f
}

func scanAnalysis(s repository.Scanner) (Analysis, error) {
	var a Analysis
	var stateRaw []byte

	err := s.Scan(
		&a.ThreadID,
		&a.Status,
		&a.LoanType,
		&a.Confidence,
		&a.Outcome,
		&a.Iteration,
		&stateRaw,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	if err != nil {
		return a, err
	}

	if err := json.Unmarshal(stateRaw, &a.State); err != nil {
		return a, fmt.Errorf("unmarshal state: %w", err)
	}

	return a, nil
}
