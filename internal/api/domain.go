package api

import (
	"fmt"

	"github.com/JaimeStill/reqguard/internal/analyses"
	"github.com/JaimeStill/reqguard/internal/checklist"
	"github.com/JaimeStill/reqguard/internal/prompts"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Analyses analyses.System
	Prompts  prompts.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) (*Domain, error) {
	checklists, err := checklist.NewStore()
	if err != nil {
		return nil, fmt.Errorf("load checklists: %w", err)
	}

	promptsSystem := prompts.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	analysesSystem := analyses.New(
		runtime.Database.Connection(),
		runtime.Agent,
		checklists,
		promptsSystem,
		runtime.Scoring,
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
		runtime.Workflow.MaxIterations,
		runtime.Workflow.PrefixLimit,
	)

	return &Domain{
		Analyses: analysesSystem,
		Prompts:  promptsSystem,
	}, nil
}
