package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	domainrequest "github.com/mvolkov/dispatch/internal/domain/request"
	portrequest "github.com/mvolkov/dispatch/internal/port/request"
)

var _ portrequest.Repository = (*RequestRepository)(nil)

type RequestRepository struct {
	s *Store
}

func (r *RequestRepository) Create(_ context.Context, req domainrequest.Request) (domainrequest.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.requests[req.ID] = cloneRequest(req)
	return req, nil
}

func (r *RequestRepository) CreateBatch(_ context.Context, rs []domainrequest.Request) ([]domainrequest.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, req := range rs {
		r.s.requests[req.ID] = cloneRequest(req)
	}
	return rs, nil
}

func (r *RequestRepository) GetByID(_ context.Context, id uuid.UUID) (domainrequest.Request, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	req, ok := r.s.requests[id]
	if !ok {
		return domainrequest.Request{}, portrequest.ErrNotFound
	}
	return cloneRequest(req), nil
}

func (r *RequestRepository) ListRecent(_ context.Context, limit int) ([]domainrequest.Request, error) {
	r.s.mu.RLock()
	all := make([]domainrequest.Request, 0, len(r.s.requests))
	for _, req := range r.s.requests {
		all = append(all, cloneRequest(req))
	}
	r.s.mu.RUnlock()

	sortRequestsOldestFirst(all)
	// newest first
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *RequestRepository) ListPending(_ context.Context) ([]domainrequest.Request, error) {
	r.s.mu.RLock()
	var pending []domainrequest.Request
	for _, req := range r.s.requests {
		if req.Status == domainrequest.StatusPending {
			pending = append(pending, cloneRequest(req))
		}
	}
	r.s.mu.RUnlock()

	sortRequestsOldestFirst(pending)
	return pending, nil
}

func (r *RequestRepository) FirstPending(ctx context.Context) (domainrequest.Request, error) {
	pending, err := r.ListPending(ctx)
	if err != nil {
		return domainrequest.Request{}, err
	}
	if len(pending) == 0 {
		return domainrequest.Request{}, portrequest.ErrNotFound
	}
	return pending[0], nil
}

func (r *RequestRepository) StatusCounts(_ context.Context) (domainrequest.StatusCounts, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var c domainrequest.StatusCounts
	for _, req := range r.s.requests {
		c.Total++
		switch req.Status {
		case domainrequest.StatusPending:
			c.Pending++
		case domainrequest.StatusAssigned:
			c.Assigned++
		case domainrequest.StatusCompleted:
			c.Completed++
		}
	}
	return c, nil
}

func (r *RequestRepository) CountByExecutorAndStatus(_ context.Context, executorID uuid.UUID, statuses []domainrequest.Status) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, req := range r.s.requests {
		if req.AssignedTo == nil || *req.AssignedTo != executorID {
			continue
		}
		for _, st := range statuses {
			if req.Status == st {
				count++
				break
			}
		}
	}
	return count, nil
}

func (r *RequestRepository) CompleteIfAssigned(_ context.Context, id uuid.UUID) (domainrequest.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req, ok := r.s.requests[id]
	if !ok {
		return domainrequest.Request{}, portrequest.ErrNotFound
	}
	if req.Status != domainrequest.StatusAssigned {
		return domainrequest.Request{}, fmt.Errorf("completing request %s: %w", id, portrequest.ErrNotAssigned)
	}

	req.Status = domainrequest.StatusCompleted
	r.s.requests[id] = req
	return cloneRequest(req), nil
}

func (r *RequestRepository) CommitAssignment(_ context.Context, id, executorID uuid.UUID, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req, ok := r.s.requests[id]
	if !ok || req.Status != domainrequest.StatusPending {
		return false, nil
	}
	e, ok := r.s.executors[executorID]
	if !ok {
		return false, fmt.Errorf("incrementing counter: executor %s not found", executorID)
	}

	req.Status = domainrequest.StatusAssigned
	execID := executorID
	req.AssignedTo = &execID
	assignedAt := at
	req.AssignedAt = &assignedAt
	r.s.requests[id] = req

	e.TotalAssigned++
	r.s.executors[executorID] = e
	return true, nil
}
