package request

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	domainrequest "github.com/mvolkov/dispatch/internal/domain/request"
)

var (
	ErrNotFound = errors.New("request not found")
	// ErrNotAssigned is returned when completion is attempted on a request
	// that is not currently assigned.
	ErrNotAssigned = errors.New("request not assigned")
)

type Repository interface {
	Create(ctx context.Context, r domainrequest.Request) (domainrequest.Request, error)
	// CreateBatch inserts all requests in one transaction; either all rows
	// land or none do.
	CreateBatch(ctx context.Context, rs []domainrequest.Request) ([]domainrequest.Request, error)
	GetByID(ctx context.Context, id uuid.UUID) (domainrequest.Request, error)
	ListRecent(ctx context.Context, limit int) ([]domainrequest.Request, error)

	// ListPending returns pending requests in insertion order
	// (created_at, then id, ascending) so selection scans are deterministic.
	ListPending(ctx context.Context) ([]domainrequest.Request, error)
	// FirstPending returns the oldest pending request, ErrNotFound when none.
	FirstPending(ctx context.Context) (domainrequest.Request, error)

	StatusCounts(ctx context.Context) (domainrequest.StatusCounts, error)
	CountByExecutorAndStatus(ctx context.Context, executorID uuid.UUID, statuses []domainrequest.Status) (int, error)

	// CompleteIfAssigned performs an atomic CAS assigned→completed.
	// ErrNotFound when the id is unknown, ErrNotAssigned otherwise.
	CompleteIfAssigned(ctx context.Context, id uuid.UUID) (domainrequest.Request, error)

	// CommitAssignment atomically transitions a pending request to assigned
	// and increments the executor's total_assigned in the same transaction.
	// Returns false without error when the request is no longer pending,
	// which signals the caller to reselect against refreshed state.
	CommitAssignment(ctx context.Context, id, executorID uuid.UUID, at time.Time) (bool, error)
}
