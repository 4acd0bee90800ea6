package request

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mvolkov/dispatch/internal/domain/event"
	domainrequest "github.com/mvolkov/dispatch/internal/domain/request"
	portbus "github.com/mvolkov/dispatch/internal/port/eventbus"
	portidem "github.com/mvolkov/dispatch/internal/port/idempotency"
	portrequest "github.com/mvolkov/dispatch/internal/port/request"
)

// BulkResult summarises a batch intake. It is also the payload stored for
// idempotent replay, so the shape must stay stable across versions.
type BulkResult struct {
	Created int         `json:"created"`
	IDs     []uuid.UUID `json:"ids"`
}

// Service handles request intake and completion. Assignment is the
// distributor's job; this service never touches assigned_to.
type Service struct {
	repo portrequest.Repository
	idem portidem.Store
	bus  portbus.EventBus
}

func NewService(repo portrequest.Repository, idem portidem.Store, bus portbus.EventBus) *Service {
	return &Service{repo: repo, idem: idem, bus: bus}
}

func (s *Service) Create(ctx context.Context, params domainrequest.Params) (domainrequest.Request, error) {
	r := domainrequest.New(params)

	created, err := s.repo.Create(ctx, r)
	if err != nil {
		return domainrequest.Request{}, fmt.Errorf("create request: %w", err)
	}

	s.publish(ctx, event.New(event.TypeRequestCreated, created.ID))
	return created, nil
}

// CreateBatch inserts one request per params entry, in order. When idemKey
// is non-empty and a previous batch stored a result under the same key, the
// stored result is returned without inserting anything; the replayed flag
// reports which path was taken.
func (s *Service) CreateBatch(ctx context.Context, batch []domainrequest.Params, idemKey string) (BulkResult, bool, error) {
	if idemKey != "" {
		if res, ok := s.checkReplay(ctx, idemKey); ok {
			return res, true, nil
		}
	}

	requests := make([]domainrequest.Request, 0, len(batch))
	for _, params := range batch {
		requests = append(requests, domainrequest.New(params))
	}

	created, err := s.repo.CreateBatch(ctx, requests)
	if err != nil {
		return BulkResult{}, false, fmt.Errorf("create batch: %w", err)
	}

	result := BulkResult{Created: len(created), IDs: make([]uuid.UUID, 0, len(created))}
	for _, r := range created {
		result.IDs = append(result.IDs, r.ID)
		s.publish(ctx, event.New(event.TypeRequestCreated, r.ID))
	}

	if idemKey != "" {
		s.storeReplay(ctx, idemKey, result)
	}
	return result, false, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (domainrequest.Request, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domainrequest.Request{}, fmt.Errorf("get request: %w", err)
	}
	return r, nil
}

func (s *Service) ListRecent(ctx context.Context, limit int) ([]domainrequest.Request, error) {
	requests, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent requests: %w", err)
	}
	return requests, nil
}

// Complete transitions an assigned request to completed. Pending or already
// completed requests are rejected with port.ErrNotAssigned.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (domainrequest.Request, error) {
	completed, err := s.repo.CompleteIfAssigned(ctx, id)
	if err != nil {
		return domainrequest.Request{}, fmt.Errorf("complete request: %w", err)
	}

	s.publish(ctx, event.New(event.TypeRequestCompleted, completed.ID))
	return completed, nil
}

// checkReplay is best-effort: a broken idempotency store degrades to a
// normal insert rather than failing the batch.
func (s *Service) checkReplay(ctx context.Context, key string) (BulkResult, bool) {
	stored, ok, err := s.idem.Check(ctx, key)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check idempotency key", "key", key, "error", err)
		return BulkResult{}, false
	}
	if !ok {
		return BulkResult{}, false
	}

	var res BulkResult
	if err := json.Unmarshal(stored, &res); err != nil {
		slog.ErrorContext(ctx, "failed to decode stored batch result", "key", key, "error", err)
		return BulkResult{}, false
	}
	return res, true
}

func (s *Service) storeReplay(ctx context.Context, key string, result BulkResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode batch result", "key", key, "error", err)
		return
	}
	if err := s.idem.Store(ctx, key, "bulk_create", payload); err != nil {
		slog.ErrorContext(ctx, "failed to store idempotency record", "key", key, "error", err)
	}
}

func (s *Service) publish(ctx context.Context, e event.Event) {
	if err := s.bus.Publish(ctx, e); err != nil {
		slog.ErrorContext(ctx, "failed to publish event",
			"type", e.Type, "entity_id", e.EntityID, "error", err)
	}
}
