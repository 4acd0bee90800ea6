package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	domainexecutor "github.com/mvolkov/dispatch/internal/domain/executor"
	portexecutor "github.com/mvolkov/dispatch/internal/port/executor"
)

var _ portexecutor.Repository = (*ExecutorRepository)(nil)

type ExecutorRepository struct {
	s *Store
}

func (r *ExecutorRepository) Create(_ context.Context, e domainexecutor.Executor) (domainexecutor.Executor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.executors {
		if existing.Name == e.Name {
			return domainexecutor.Executor{}, fmt.Errorf("executor %q: %w", e.Name, portexecutor.ErrAlreadyExists)
		}
	}
	r.s.executors[e.ID] = cloneExecutor(e)
	return e, nil
}

func (r *ExecutorRepository) GetByID(_ context.Context, id uuid.UUID) (domainexecutor.Executor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.executors[id]
	if !ok {
		return domainexecutor.Executor{}, portexecutor.ErrNotFound
	}
	return cloneExecutor(e), nil
}

func (r *ExecutorRepository) List(_ context.Context, filters domainexecutor.ListFilters) ([]domainexecutor.Executor, error) {
	r.s.mu.RLock()
	var out []domainexecutor.Executor
	for _, e := range r.s.executors {
		if filters.IsActive != nil && e.IsActive != *filters.IsActive {
			continue
		}
		out = append(out, cloneExecutor(e))
	}
	r.s.mu.RUnlock()

	sortExecutorsOldestFirst(out)
	return out, nil
}

func (r *ExecutorRepository) Update(_ context.Context, id uuid.UUID, upd domainexecutor.Update) (domainexecutor.Executor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.executors[id]
	if !ok {
		return domainexecutor.Executor{}, portexecutor.ErrNotFound
	}

	if upd.Name != nil && *upd.Name != e.Name {
		for _, existing := range r.s.executors {
			if existing.Name == *upd.Name {
				return domainexecutor.Executor{}, fmt.Errorf("renaming executor %s: %w", id, portexecutor.ErrAlreadyExists)
			}
		}
		e.Name = *upd.Name
	}
	if upd.Params != nil {
		params := make(map[string]string, len(*upd.Params))
		for k, v := range *upd.Params {
			params[k] = v
		}
		e.Params = params
	}
	if upd.IsActive != nil {
		e.IsActive = *upd.IsActive
	}

	r.s.executors[id] = e
	return cloneExecutor(e), nil
}

func (r *ExecutorRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.executors[id]; !ok {
		return portexecutor.ErrNotFound
	}
	delete(r.s.executors, id)
	return nil
}

func (r *ExecutorRepository) FindActive(_ context.Context, id uuid.UUID) (domainexecutor.Executor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.executors[id]
	if !ok || !e.IsActive {
		return domainexecutor.Executor{}, portexecutor.ErrNotFound
	}
	return cloneExecutor(e), nil
}

func (r *ExecutorRepository) ListActive(ctx context.Context) ([]domainexecutor.Executor, error) {
	active := true
	return r.List(ctx, domainexecutor.ListFilters{IsActive: &active})
}

func (r *ExecutorRepository) LeastLoadedActive(_ context.Context) (domainexecutor.Executor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var best *domainexecutor.Executor
	for _, e := range r.s.executors {
		if !e.IsActive {
			continue
		}
		e := e
		if best == nil ||
			e.TotalAssigned < best.TotalAssigned ||
			(e.TotalAssigned == best.TotalAssigned && lessID(e.ID, best.ID)) {
			best = &e
		}
	}
	if best == nil {
		return domainexecutor.Executor{}, portexecutor.ErrNotFound
	}
	return cloneExecutor(*best), nil
}
