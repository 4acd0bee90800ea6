package distributor

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mvolkov/dispatch/internal/domain/event"
	domainexecutor "github.com/mvolkov/dispatch/internal/domain/executor"
	domainrequest "github.com/mvolkov/dispatch/internal/domain/request"
	portdist "github.com/mvolkov/dispatch/internal/port/distributor"
	portbus "github.com/mvolkov/dispatch/internal/port/eventbus"
	portexecutor "github.com/mvolkov/dispatch/internal/port/executor"
	portlocker "github.com/mvolkov/dispatch/internal/port/locker"
	portrequest "github.com/mvolkov/dispatch/internal/port/request"
)

var _ portdist.Distributor = (*Service)(nil)

// Service is the assignment engine. It owns every decision about which
// request goes to which executor; transport and repositories stay dumb.
// [SRP] Selection and commitment only — intake and completion live in
// the request service.
type Service struct {
	requests  portrequest.Repository
	executors portexecutor.Repository
	locker    portlocker.AdvisoryLocker
	bus       portbus.EventBus
}

func NewService(
	requests portrequest.Repository,
	executors portexecutor.Repository,
	locker portlocker.AdvisoryLocker,
	bus portbus.EventBus,
) *Service {
	return &Service{
		requests:  requests,
		executors: executors,
		locker:    locker,
		bus:       bus,
	}
}

// PullNext hands the calling executor its next request. Executors with
// declared capability params get the oldest pending request whose matching
// values they accept; if none matches (or no params are declared) the oldest
// pending request is handed out regardless. A nil request with a nil error
// means there is nothing to pull or the executor cannot pull.
func (s *Service) PullNext(ctx context.Context, executorID uuid.UUID) (*domainrequest.Request, error) {
	exec, err := s.executors.FindActive(ctx, executorID)
	if err != nil {
		if errors.Is(err, portexecutor.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active executor: %w", err)
	}

	declared := len(exec.DeclaredParams()) > 0
	for {
		candidate, err := s.selectCandidate(ctx, exec, declared)
		if err != nil {
			return nil, err
		}
		if candidate == nil {
			return nil, nil
		}

		now := time.Now().UTC()
		claimed, err := s.requests.CommitAssignment(ctx, candidate.ID, exec.ID, now)
		if err != nil {
			return nil, fmt.Errorf("commit assignment: %w", err)
		}
		if !claimed {
			// Lost the race to a concurrent puller — reselect from fresh state.
			assignmentConflicts.Inc()
			continue
		}

		assignmentsTotal.WithLabelValues("pull").Inc()
		candidate.Status = domainrequest.StatusAssigned
		candidate.AssignedTo = &exec.ID
		candidate.AssignedAt = &now
		s.publish(ctx, event.New(event.TypeRequestAssigned, candidate.ID))
		return candidate, nil
	}
}

// selectCandidate picks the request PullNext should try to claim, without
// claiming it. Capability matching is one-directional: every declared
// executor param must be matched by the request; extra request values are
// fine.
func (s *Service) selectCandidate(ctx context.Context, exec domainexecutor.Executor, declared bool) (*domainrequest.Request, error) {
	if declared {
		pending, err := s.requests.ListPending(ctx)
		if err != nil {
			return nil, fmt.Errorf("list pending requests: %w", err)
		}
		for i := range pending {
			if exec.Accepts(pending[i].Params.MatchValues()) {
				return &pending[i], nil
			}
		}
		if len(pending) > 0 {
			// Nothing matched — fall back to the oldest pending request.
			return &pending[0], nil
		}
		return nil, nil
	}

	first, err := s.requests.FirstPending(ctx)
	if err != nil {
		if errors.Is(err, portrequest.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("first pending request: %w", err)
	}
	return &first, nil
}

// PickLeastLoaded returns the active executor with the smallest assignment
// counter, ties broken by id. Nil with nil error when no executor is active.
// Read-only: the counter moves only when an assignment commits.
func (s *Service) PickLeastLoaded(ctx context.Context) (*domainexecutor.Executor, error) {
	e, err := s.executors.LeastLoadedActive(ctx)
	if err != nil {
		if errors.Is(err, portexecutor.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("least loaded executor: %w", err)
	}
	return &e, nil
}

// AutoDistribute assigns each pending request in ids to the currently
// least-loaded active executor, in the given order, ignoring capability
// params. Serialised under an advisory lock so concurrent batch runs do not
// interleave their least-loaded reads. Returns how many were assigned.
func (s *Service) AutoDistribute(ctx context.Context, ids []uuid.UUID) (int, error) {
	assigned := 0
	err := s.locker.WithLock(ctx, autoDistributeKey, func(ctx context.Context) error {
		for _, id := range ids {
			req, err := s.requests.GetByID(ctx, id)
			if err != nil {
				if errors.Is(err, portrequest.ErrNotFound) {
					continue
				}
				return fmt.Errorf("get request %s: %w", id, err)
			}
			if req.Status != domainrequest.StatusPending {
				continue
			}

			exec, err := s.executors.LeastLoadedActive(ctx)
			if err != nil {
				if errors.Is(err, portexecutor.ErrNotFound) {
					// No active executor — stop the whole batch, the rest stays pending.
					slog.WarnContext(ctx, "auto-distribute stopped: no active executor", "assigned", assigned)
					return nil
				}
				return fmt.Errorf("least loaded executor: %w", err)
			}

			claimed, err := s.requests.CommitAssignment(ctx, req.ID, exec.ID, time.Now().UTC())
			if err != nil {
				return fmt.Errorf("commit assignment for %s: %w", req.ID, err)
			}
			if !claimed {
				// Claimed by a concurrent puller between GetByID and here — skip it.
				assignmentConflicts.Inc()
				continue
			}

			assigned++
			assignmentsTotal.WithLabelValues("auto").Inc()
			s.publish(ctx, event.New(event.TypeRequestAssigned, req.ID))
		}
		return nil
	})
	if err != nil {
		return assigned, fmt.Errorf("auto distribute: %w", err)
	}
	return assigned, nil
}

// Stats reports status totals and the per-executor load picture. The
// actual_count per executor is a live recount of requests it currently
// holds (assigned or completed) — never the total_assigned audit counter,
// which keeps growing after completions and deletions.
func (s *Service) Stats(ctx context.Context) (portdist.Stats, error) {
	counts, err := s.requests.StatusCounts(ctx)
	if err != nil {
		return portdist.Stats{}, fmt.Errorf("count requests: %w", err)
	}

	executors, err := s.executors.List(ctx, domainexecutor.ListFilters{})
	if err != nil {
		return portdist.Stats{}, fmt.Errorf("list executors: %w", err)
	}

	stats := portdist.Stats{
		StatusCounts: counts,
		Executors:    make([]portdist.ExecutorStats, 0, len(executors)),
	}
	held := []domainrequest.Status{domainrequest.StatusAssigned, domainrequest.StatusCompleted}
	for _, e := range executors {
		actual, err := s.requests.CountByExecutorAndStatus(ctx, e.ID, held)
		if err != nil {
			return portdist.Stats{}, fmt.Errorf("count requests for executor %s: %w", e.ID, err)
		}
		if e.IsActive {
			stats.ActiveExecutors++
		}
		stats.Executors = append(stats.Executors, portdist.ExecutorStats{
			ID:            e.ID,
			Name:          e.Name,
			Params:        e.Params,
			IsActive:      e.IsActive,
			TotalAssigned: e.TotalAssigned,
			ActualCount:   actual,
		})
	}

	sort.SliceStable(stats.Executors, func(i, j int) bool {
		return stats.Executors[i].TotalAssigned > stats.Executors[j].TotalAssigned
	})
	stats.ImbalancePercent = imbalance(stats.Executors)
	return stats, nil
}

// imbalance is the max relative deviation of actual counts from their mean,
// in percent, over executors holding at least one request. Fewer than two
// such executors means nothing to compare.
func imbalance(executors []portdist.ExecutorStats) float64 {
	var working []int
	for _, e := range executors {
		if e.ActualCount > 0 {
			working = append(working, e.ActualCount)
		}
	}
	if len(working) < 2 {
		return 0
	}

	sum := 0
	for _, c := range working {
		sum += c
	}
	mean := float64(sum) / float64(len(working))
	if mean == 0 {
		return 0
	}

	var maxDev float64
	for _, c := range working {
		if d := math.Abs(float64(c) - mean); d > maxDev {
			maxDev = d
		}
	}
	return math.Round(maxDev/mean*100*100) / 100
}

func (s *Service) publish(ctx context.Context, e event.Event) {
	if err := s.bus.Publish(ctx, e); err != nil {
		slog.ErrorContext(ctx, "failed to publish event",
			"type", e.Type, "entity_id", e.EntityID, "error", err)
	}
}

// autoDistributeKey serialises batch distribution runs across instances
// sharing one database.
var autoDistributeKey = advisoryKey("auto_distribute")

// advisoryKey hashes a lock scope to a stable int64 for pg_advisory_lock.
func advisoryKey(scope string) int64 {
	h := fnv.New64a()
	h.Write([]byte(scope))
	return int64(h.Sum64())
}
