package distributor

import (
	"context"

	"github.com/google/uuid"

	domainexecutor "github.com/mvolkov/dispatch/internal/domain/executor"
	domainrequest "github.com/mvolkov/dispatch/internal/domain/request"
)

// ExecutorStats pairs the audit counter with a live recount of requests
// currently bound to the executor.
type ExecutorStats struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Params        map[string]string `json:"parameters"`
	IsActive      bool              `json:"is_active"`
	TotalAssigned int               `json:"total_assigned"`
	ActualCount   int               `json:"actual_count"`
}

type Stats struct {
	domainrequest.StatusCounts
	ActiveExecutors int             `json:"active_executors"`
	Executors       []ExecutorStats `json:"executor_stats"`
	// ImbalancePercent is the largest relative deviation from the mean
	// actual count across executors holding at least one request.
	ImbalancePercent float64 `json:"distribution_error_percent"`
}

// Distributor is the assignment engine. All selection logic lives behind it;
// transports stay pass-throughs. Absence (no pending request, no active
// executor) is a nil result, not an error.
type Distributor interface {
	// PullNext assigns and returns the next suitable pending request for
	// the executor, preferring capability matches and falling back to the
	// oldest pending request. Nil when the executor is missing/inactive or
	// nothing is pending.
	PullNext(ctx context.Context, executorID uuid.UUID) (*domainrequest.Request, error)

	// PickLeastLoaded returns the active executor with the smallest
	// total_assigned without mutating anything. Nil when none is active.
	PickLeastLoaded(ctx context.Context) (*domainexecutor.Executor, error)

	// AutoDistribute assigns each pending id to the least-loaded active
	// executor, in the given order, stopping early when no executor is
	// active. Returns the number assigned.
	AutoDistribute(ctx context.Context, ids []uuid.UUID) (int, error)

	Stats(ctx context.Context) (Stats, error)
}
