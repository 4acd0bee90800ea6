package executor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mvolkov/dispatch/internal/domain/event"
	domainexecutor "github.com/mvolkov/dispatch/internal/domain/executor"
	portbus "github.com/mvolkov/dispatch/internal/port/eventbus"
	portexecutor "github.com/mvolkov/dispatch/internal/port/executor"
)

// Service manages executor lifecycle: registration, updates, retirement.
// Assignment decisions live in the distributor, not here.
type Service struct {
	repo portexecutor.Repository
	bus  portbus.EventBus
}

func NewService(repo portexecutor.Repository, bus portbus.EventBus) *Service {
	return &Service{repo: repo, bus: bus}
}

func (s *Service) Create(ctx context.Context, name string, params map[string]string) (domainexecutor.Executor, error) {
	e := domainexecutor.New(name, params)

	created, err := s.repo.Create(ctx, e)
	if err != nil {
		return domainexecutor.Executor{}, fmt.Errorf("create executor: %w", err)
	}

	s.publish(ctx, event.New(event.TypeExecutorCreated, created.ID))
	return created, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (domainexecutor.Executor, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domainexecutor.Executor{}, fmt.Errorf("get executor: %w", err)
	}
	return e, nil
}

func (s *Service) List(ctx context.Context, filters domainexecutor.ListFilters) ([]domainexecutor.Executor, error) {
	executors, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("list executors: %w", err)
	}
	return executors, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, upd domainexecutor.Update) (domainexecutor.Executor, error) {
	updated, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return domainexecutor.Executor{}, fmt.Errorf("update executor: %w", err)
	}

	s.publish(ctx, event.New(event.TypeExecutorUpdated, updated.ID))
	return updated, nil
}

// Delete removes the executor. Its historical requests keep their
// assigned_to reference; nothing cascades.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete executor: %w", err)
	}

	s.publish(ctx, event.New(event.TypeExecutorDeleted, id))
	return nil
}

func (s *Service) publish(ctx context.Context, e event.Event) {
	if err := s.bus.Publish(ctx, e); err != nil {
		slog.ErrorContext(ctx, "failed to publish event",
			"type", e.Type, "entity_id", e.EntityID, "error", err)
	}
}
