package executor

import (
	"context"
	"errors"

	"github.com/google/uuid"

	domainexecutor "github.com/mvolkov/dispatch/internal/domain/executor"
)

var (
	ErrNotFound = errors.New("executor not found")
	// ErrAlreadyExists is returned when a create collides with an existing
	// executor name.
	ErrAlreadyExists = errors.New("executor already exists")
)

// Repository manages executor state in the database.
type Repository interface {
	Create(ctx context.Context, e domainexecutor.Executor) (domainexecutor.Executor, error)
	GetByID(ctx context.Context, id uuid.UUID) (domainexecutor.Executor, error)
	List(ctx context.Context, filters domainexecutor.ListFilters) ([]domainexecutor.Executor, error)
	Update(ctx context.Context, id uuid.UUID, upd domainexecutor.Update) (domainexecutor.Executor, error)
	// Delete removes the executor only; historical requests keep their
	// assigned_to back-reference.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindActive returns the executor only when it exists and is active;
	// ErrNotFound covers both a missing id and an inactive executor.
	FindActive(ctx context.Context, id uuid.UUID) (domainexecutor.Executor, error)
	ListActive(ctx context.Context) ([]domainexecutor.Executor, error)
	// LeastLoadedActive returns the active executor with the smallest
	// total_assigned, ties broken by ascending id. ErrNotFound when no
	// executor is active.
	LeastLoadedActive(ctx context.Context) (domainexecutor.Executor, error)
}
