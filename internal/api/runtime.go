package api

import (
	"github.com/JaimeStill/reqguard/internal/agent"
	"github.com/JaimeStill/reqguard/internal/config"
	"github.com/JaimeStill/reqguard/internal/infrastructure"
	"github.com/JaimeStill/reqguard/internal/scoring"
	"github.com/JaimeStill/reqguard/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration and the
// completion backend shared by all workflow executions.
type Runtime struct {
	*infrastructure.Infrastructure
	Agent      agent.System
	Scoring    scoring.Config
	Workflow   config.WorkflowConfig
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	logger := infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    logger,
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Agent:      agent.New(&cfg.Agent, logger),
		Scoring:    cfg.Scoring,
		Workflow:   cfg.Workflow,
		Pagination: cfg.API.Pagination,
	}
}
