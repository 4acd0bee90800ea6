// Package memory holds in-process implementations of every storage port so
// the server can run without Postgres and the engine's concurrency behavior
// can be exercised in plain unit tests.
package memory

import (
	"bytes"
	"sort"
	"sync"

	"github.com/google/uuid"

	domainexecutor "github.com/mvolkov/dispatch/internal/domain/executor"
	domainrequest "github.com/mvolkov/dispatch/internal/domain/request"
)

// Store keeps requests and executors behind one mutex. The two repository
// views share it so CommitAssignment can mutate a request and an executor
// counter as a single atomic step, mirroring the Postgres transaction.
type Store struct {
	mu        sync.RWMutex
	requests  map[uuid.UUID]domainrequest.Request
	executors map[uuid.UUID]domainexecutor.Executor
}

func NewStore() *Store {
	return &Store{
		requests:  make(map[uuid.UUID]domainrequest.Request),
		executors: make(map[uuid.UUID]domainexecutor.Executor),
	}
}

// Requests returns the request repository view of the store.
func (s *Store) Requests() *RequestRepository { return &RequestRepository{s: s} }

// Executors returns the executor repository view of the store.
func (s *Store) Executors() *ExecutorRepository { return &ExecutorRepository{s: s} }

// lessID mirrors Postgres UUID ordering (byte-wise).
func lessID(a, b uuid.UUID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

func sortRequestsOldestFirst(rs []domainrequest.Request) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].CreatedAt.Equal(rs[j].CreatedAt) {
			return lessID(rs[i].ID, rs[j].ID)
		}
		return rs[i].CreatedAt.Before(rs[j].CreatedAt)
	})
}

func sortExecutorsOldestFirst(es []domainexecutor.Executor) {
	sort.Slice(es, func(i, j int) bool {
		if es[i].CreatedAt.Equal(es[j].CreatedAt) {
			return lessID(es[i].ID, es[j].ID)
		}
		return es[i].CreatedAt.Before(es[j].CreatedAt)
	})
}

func cloneRequest(r domainrequest.Request) domainrequest.Request {
	out := r
	if r.Params != nil {
		out.Params = make(domainrequest.Params, len(r.Params))
		for k, v := range r.Params {
			out.Params[k] = v
		}
	}
	if r.AssignedTo != nil {
		id := *r.AssignedTo
		out.AssignedTo = &id
	}
	if r.AssignedAt != nil {
		at := *r.AssignedAt
		out.AssignedAt = &at
	}
	return out
}

func cloneExecutor(e domainexecutor.Executor) domainexecutor.Executor {
	out := e
	if e.Params != nil {
		out.Params = make(map[string]string, len(e.Params))
		for k, v := range e.Params {
			out.Params[k] = v
		}
	}
	return out
}
