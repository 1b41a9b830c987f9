package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/reqguard/internal/agent"
	"github.com/JaimeStill/reqguard/internal/checklist"
	"github.com/JaimeStill/reqguard/internal/prompts"
	"github.com/JaimeStill/reqguard/internal/scoring"
	"github.com/JaimeStill/reqguard/internal/workflow"
	"github.com/JaimeStill/reqguard/pkg/pagination"
	"github.com/JaimeStill/reqguard/pkg/query"
	"github.com/JaimeStill/reqguard/pkg/repository"
	"github.com/JaimeStill/reqguard/pkg/storage"
)

type repo struct {
	db         *sql.DB
	rt         *workflow.Runtime
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an analysis repository implementing the System interface. It
// internally constructs the workflow runtime and registers itself as the
// runtime's checkpoint store, so every node transition lands in the
// analyses table.
func New(
	db *sql.DB,
	backend agent.System,
	checklists *checklist.Store,
	prompts prompts.System,
	scoring scoring.Config,
	storage storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxIterations int,
	prefixLimit int,
) System {
	r := &repo{
		db:         db,
		storage:    storage,
		logger:     logger.With("system", "analyses"),
		pagination: pagination,
	}

	r.rt = &workflow.Runtime{
		Agent:         backend,
		Checklists:    checklists,
		Prompts:       prompts,
		Scoring:       scoring,
		Store:         r,
		MaxIterations: maxIterations,
		PrefixLimit:   prefixLimit,
		Logger:        logger.With("workflow", "analyze"),
	}

	return r
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Analysis], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "LoanType", "Outcome")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count analyses: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAnalysis)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, threadID uuid.UUID) (*Analysis, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ThreadID", threadID)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAnalysis)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) Submit(ctx context.Context, cmd SubmitCommand) (*Analysis, error) {
	if strings.TrimSpace(cmd.Requirements) == "" {
		return nil, ErrRequirementsRequired
	}

	threadID := uuid.New()

	// Archive first so the submission survives even when the author stage
	// fails mid-run.
	r.archive(ctx, threadID, 0, cmd.Requirements)

	state, err := r.rt.Start(ctx, threadID, cmd.Requirements)
	if err != nil {
		return nil, fmt.Errorf("analyze thread %s: %w", threadID, err)
	}

	r.logger.Info("requirements submitted",
		"thread_id", threadID,
		"phase", state.Phase,
		"outcome", state.Outcome,
		"confidence", state.Confidence,
	)

	return r.Find(ctx, threadID)
}

func (r *repo) Approve(ctx context.Context, threadID uuid.UUID, cmd DecisionCommand) (*Analysis, error) {
	state, err := r.rt.Resume(ctx, threadID, workflow.Decision{
		Approved: true,
		Feedback: cmd.Feedback,
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("analysis approved",
		"thread_id", threadID,
		"iteration", state.Iteration,
	)

	return r.Find(ctx, threadID)
}

func (r *repo) Reject(ctx context.Context, threadID uuid.UUID, cmd DecisionCommand) (*Analysis, error) {
	if strings.TrimSpace(cmd.Feedback) == "" {
		return nil, ErrFeedbackRequired
	}

	state, err := r.rt.Resume(ctx, threadID, workflow.Decision{
		Approved: false,
		Feedback: cmd.Feedback,
	})
	if err != nil {
		return nil, err
	}

	r.archive(ctx, threadID, state.Iteration, state.RawRequirements)

	r.logger.Info("analysis rejected",
		"thread_id", threadID,
		"phase", state.Phase,
		"iteration", state.Iteration,
	)

	return r.Find(ctx, threadID)
}

func (r *repo) Delete(ctx context.Context, threadID uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM analyses WHERE thread_id = $1",
			threadID,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("analysis deleted", "thread_id", threadID)
	return nil
}

// Load implements workflow.Store by unpacking the checkpoint column.
func (r *repo) Load(ctx context.Context, threadID uuid.UUID) (*workflow.AnalysisState, error) {
	a, err := r.Find(ctx, threadID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, workflow.ErrThreadNotFound
		}
		return nil, err
	}
	return &a.State, nil
}

// Save implements workflow.Store by upserting the analysis row with summary
// columns derived from the checkpoint.
func (r *repo) Save(ctx context.Context, state *workflow.AnalysisState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state %s: %w", state.ThreadID, err)
	}

	var loanType string
	if state.Author != nil {
		loanType = state.Author.LoanClassification.PrimaryType
	}

	upsertQ := `
		INSERT INTO analyses (thread_id, status, loan_type, confidence, outcome, iteration, state)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (thread_id) DO UPDATE SET
			status = EXCLUDED.status,
			loan_type = EXCLUDED.loan_type,
			confidence = EXCLUDED.confidence,
			outcome = EXCLUDED.outcome,
			iteration = EXCLUDED.iteration,
			state = EXCLUDED.state,
			updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, upsertQ,
		state.ThreadID,
		deriveStatus(state),
		loanType,
		state.Confidence,
		string(state.Outcome),
		state.Iteration,
		raw,
	); err != nil {
		return fmt.Errorf("save checkpoint %s: %w", state.ThreadID, err)
	}

	return nil
}

// archive writes a requirements revision to blob storage. Archival is best
// effort: a storage outage must not fail the analysis itself.
func (r *repo) archive(ctx context.Context, threadID uuid.UUID, revision int, content string) {
	key := fmt.Sprintf("threads/%s/rev-%d.txt", threadID, revision)

	if err := r.storage.Upload(ctx, key, strings.NewReader(content), "text/plain"); err != nil {
		r.logger.Warn("failed to archive requirements revision",
			"thread_id", threadID,
			"key", key,
			"error", err,
		)
	}
}

func deriveStatus(state *workflow.AnalysisState) Status {
	switch {
	case state.Escalated():
		return StatusEscalated
	case state.Terminal():
		return StatusCompleted
	case state.Suspended():
		return StatusAwaitingReview
	default:
		return StatusAnalyzing
	}
}
