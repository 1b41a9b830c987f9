package analyses

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/reqguard/pkg/pagination"
)

// System defines the public contract for analysis domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Analysis], error)

	Find(ctx context.Context, threadID uuid.UUID) (*Analysis, error)
	Submit(ctx context.Context, cmd SubmitCommand) (*Analysis, error)
	Approve(ctx context.Context, threadID uuid.UUID, cmd DecisionCommand) (*Analysis, error)
	Reject(ctx context.Context, threadID uuid.UUID, cmd DecisionCommand) (*Analysis, error)
	Delete(ctx context.Context, threadID uuid.UUID) error
}
