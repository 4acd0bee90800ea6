package distributor_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mvolkov/dispatch/internal/domain/event"
	domainexecutor "github.com/mvolkov/dispatch/internal/domain/executor"
	domainrequest "github.com/mvolkov/dispatch/internal/domain/request"
	"github.com/mvolkov/dispatch/internal/mocks"
	portexecutor "github.com/mvolkov/dispatch/internal/port/executor"
	portrequest "github.com/mvolkov/dispatch/internal/port/request"
	distributorsvc "github.com/mvolkov/dispatch/internal/service/distributor"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func newDistSvc(t *testing.T) (*distributorsvc.Service, *mocks.MockRequestRepository, *mocks.MockExecutorRepository, *mocks.MockAdvisoryLocker, *mocks.MockEventBus) {
	t.Helper()
	ctrl := gomock.NewController(t)
	requests := mocks.NewMockRequestRepository(ctrl)
	executors := mocks.NewMockExecutorRepository(ctrl)
	locker := mocks.NewMockAdvisoryLocker(ctrl)
	bus := mocks.NewMockEventBus(ctrl)
	svc := distributorsvc.NewService(requests, executors, locker, bus)
	return svc, requests, executors, locker, bus
}

// expectLock runs the critical section inline, as the real locker would once
// the advisory lock is held.
func expectLock(locker *mocks.MockAdvisoryLocker) {
	locker.EXPECT().WithLock(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ int64, fn func(context.Context) error) error {
			return fn(ctx)
		})
}

func matchEventType(et event.Type) gomock.Matcher {
	return eventTypeMatcher{et}
}

type eventTypeMatcher struct{ want event.Type }

func (m eventTypeMatcher) Matches(x interface{}) bool {
	e, ok := x.(event.Event)
	return ok && e.Type == m.want
}
func (m eventTypeMatcher) String() string { return "event.Type=" + string(m.want) }

func withParams(kv map[string]any) domainrequest.Params {
	return domainrequest.Params{domainrequest.MatchKey: kv}
}

func pendingRequest(kv map[string]any) domainrequest.Request {
	return domainrequest.Request{
		ID:        uuid.New(),
		Params:    withParams(kv),
		Status:    domainrequest.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

func activeExecutor(params map[string]string) domainexecutor.Executor {
	return domainexecutor.Executor{ID: uuid.New(), Name: "worker", Params: params, IsActive: true}
}

// ── PullNext ──────────────────────────────────────────────────────────────────

func TestPullNext(t *testing.T) {
	t.Run("unknown or inactive executor pulls nothing", func(t *testing.T) {
		svc, _, executors, _, _ := newDistSvc(t)
		id := uuid.New()
		executors.EXPECT().FindActive(gomock.Any(), id).
			Return(domainexecutor.Executor{}, portexecutor.ErrNotFound)

		got, err := svc.PullNext(context.Background(), id)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("no declared params pulls the oldest pending request", func(t *testing.T) {
		svc, requests, executors, _, bus := newDistSvc(t)
		exec := activeExecutor(nil)
		req := pendingRequest(map[string]any{"region": "us"})
		executors.EXPECT().FindActive(gomock.Any(), exec.ID).Return(exec, nil)
		requests.EXPECT().FirstPending(gomock.Any()).Return(req, nil)
		requests.EXPECT().CommitAssignment(gomock.Any(), req.ID, exec.ID, gomock.Any()).Return(true, nil)
		bus.EXPECT().Publish(gomock.Any(), matchEventType(event.TypeRequestAssigned)).Return(nil)

		got, err := svc.PullNext(context.Background(), exec.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, req.ID, got.ID)
		assert.Equal(t, domainrequest.StatusAssigned, got.Status)
		require.NotNil(t, got.AssignedTo)
		assert.Equal(t, exec.ID, *got.AssignedTo)
		assert.NotNil(t, got.AssignedAt)
	})

	t.Run("empty queue pulls nothing", func(t *testing.T) {
		svc, requests, executors, _, _ := newDistSvc(t)
		exec := activeExecutor(nil)
		executors.EXPECT().FindActive(gomock.Any(), exec.ID).Return(exec, nil)
		requests.EXPECT().FirstPending(gomock.Any()).
			Return(domainrequest.Request{}, portrequest.ErrNotFound)

		got, err := svc.PullNext(context.Background(), exec.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("declared params pick the oldest matching request", func(t *testing.T) {
		svc, requests, executors, _, bus := newDistSvc(t)
		exec := activeExecutor(map[string]string{"region": "eu"})
		noMatch := pendingRequest(map[string]any{"region": "us"})
		match := pendingRequest(map[string]any{"region": "eu", "tier": "gold"})
		executors.EXPECT().FindActive(gomock.Any(), exec.ID).Return(exec, nil)
		requests.EXPECT().ListPending(gomock.Any()).
			Return([]domainrequest.Request{noMatch, match}, nil)
		requests.EXPECT().CommitAssignment(gomock.Any(), match.ID, exec.ID, gomock.Any()).Return(true, nil)
		bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		got, err := svc.PullNext(context.Background(), exec.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, match.ID, got.ID)
	})

	t.Run("declared params fall back to the oldest pending when nothing matches", func(t *testing.T) {
		svc, requests, executors, _, bus := newDistSvc(t)
		exec := activeExecutor(map[string]string{"region": "eu"})
		oldest := pendingRequest(map[string]any{"region": "us"})
		younger := pendingRequest(map[string]any{"region": "apac"})
		executors.EXPECT().FindActive(gomock.Any(), exec.ID).Return(exec, nil)
		requests.EXPECT().ListPending(gomock.Any()).
			Return([]domainrequest.Request{oldest, younger}, nil)
		requests.EXPECT().CommitAssignment(gomock.Any(), oldest.ID, exec.ID, gomock.Any()).Return(true, nil)
		bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		got, err := svc.PullNext(context.Background(), exec.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, oldest.ID, got.ID)
	})

	t.Run("declared params with an empty queue pull nothing", func(t *testing.T) {
		svc, requests, executors, _, _ := newDistSvc(t)
		exec := activeExecutor(map[string]string{"region": "eu"})
		executors.EXPECT().FindActive(gomock.Any(), exec.ID).Return(exec, nil)
		requests.EXPECT().ListPending(gomock.Any()).Return(nil, nil)

		got, err := svc.PullNext(context.Background(), exec.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("params with only empty values behave as undeclared", func(t *testing.T) {
		svc, requests, executors, _, bus := newDistSvc(t)
		exec := activeExecutor(map[string]string{"region": ""})
		req := pendingRequest(map[string]any{"region": "us"})
		executors.EXPECT().FindActive(gomock.Any(), exec.ID).Return(exec, nil)
		// FirstPending, not ListPending — no capability scan happens.
		requests.EXPECT().FirstPending(gomock.Any()).Return(req, nil)
		requests.EXPECT().CommitAssignment(gomock.Any(), req.ID, exec.ID, gomock.Any()).Return(true, nil)
		bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		got, err := svc.PullNext(context.Background(), exec.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, req.ID, got.ID)
	})

	t.Run("lost claim race reselects from fresh state", func(t *testing.T) {
		svc, requests, executors, _, bus := newDistSvc(t)
		exec := activeExecutor(nil)
		taken := pendingRequest(nil)
		next := pendingRequest(nil)
		executors.EXPECT().FindActive(gomock.Any(), exec.ID).Return(exec, nil)
		gomock.InOrder(
			requests.EXPECT().FirstPending(gomock.Any()).Return(taken, nil),
			requests.EXPECT().CommitAssignment(gomock.Any(), taken.ID, exec.ID, gomock.Any()).Return(false, nil),
			requests.EXPECT().FirstPending(gomock.Any()).Return(next, nil),
			requests.EXPECT().CommitAssignment(gomock.Any(), next.ID, exec.ID, gomock.Any()).Return(true, nil),
		)
		bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		got, err := svc.PullNext(context.Background(), exec.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, next.ID, got.ID)
	})

	t.Run("repo error surfaces", func(t *testing.T) {
		svc, requests, executors, _, _ := newDistSvc(t)
		exec := activeExecutor(nil)
		executors.EXPECT().FindActive(gomock.Any(), exec.ID).Return(exec, nil)
		requests.EXPECT().FirstPending(gomock.Any()).
			Return(domainrequest.Request{}, errors.New("db error"))

		_, err := svc.PullNext(context.Background(), exec.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "first pending request")
	})
}

// ── PickLeastLoaded ───────────────────────────────────────────────────────────

func TestPickLeastLoaded(t *testing.T) {
	t.Run("returns the least loaded active executor", func(t *testing.T) {
		svc, _, executors, _, _ := newDistSvc(t)
		exec := activeExecutor(nil)
		exec.TotalAssigned = 3
		executors.EXPECT().LeastLoadedActive(gomock.Any()).Return(exec, nil)

		got, err := svc.PickLeastLoaded(context.Background())
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, exec.ID, got.ID)
	})

	t.Run("no active executor yields nil without error", func(t *testing.T) {
		svc, _, executors, _, _ := newDistSvc(t)
		executors.EXPECT().LeastLoadedActive(gomock.Any()).
			Return(domainexecutor.Executor{}, portexecutor.ErrNotFound)

		got, err := svc.PickLeastLoaded(context.Background())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("repo error surfaces", func(t *testing.T) {
		svc, _, executors, _, _ := newDistSvc(t)
		executors.EXPECT().LeastLoadedActive(gomock.Any()).
			Return(domainexecutor.Executor{}, errors.New("db error"))

		_, err := svc.PickLeastLoaded(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "least loaded executor")
	})
}

// ── AutoDistribute ────────────────────────────────────────────────────────────

func TestAutoDistribute(t *testing.T) {
	t.Run("assigns each pending id ignoring capability params", func(t *testing.T) {
		svc, requests, executors, locker, bus := newDistSvc(t)
		expectLock(locker)
		exec := activeExecutor(map[string]string{"region": "eu"})
		r1 := pendingRequest(map[string]any{"region": "us"})
		r2 := pendingRequest(map[string]any{"region": "apac"})
		gomock.InOrder(
			requests.EXPECT().GetByID(gomock.Any(), r1.ID).Return(r1, nil),
			executors.EXPECT().LeastLoadedActive(gomock.Any()).Return(exec, nil),
			requests.EXPECT().CommitAssignment(gomock.Any(), r1.ID, exec.ID, gomock.Any()).Return(true, nil),
			requests.EXPECT().GetByID(gomock.Any(), r2.ID).Return(r2, nil),
			executors.EXPECT().LeastLoadedActive(gomock.Any()).Return(exec, nil),
			requests.EXPECT().CommitAssignment(gomock.Any(), r2.ID, exec.ID, gomock.Any()).Return(true, nil),
		)
		bus.EXPECT().Publish(gomock.Any(), matchEventType(event.TypeRequestAssigned)).Return(nil).Times(2)

		assigned, err := svc.AutoDistribute(context.Background(), []uuid.UUID{r1.ID, r2.ID})
		require.NoError(t, err)
		assert.Equal(t, 2, assigned)
	})

	t.Run("skips missing and non-pending ids", func(t *testing.T) {
		svc, requests, executors, locker, bus := newDistSvc(t)
		expectLock(locker)
		exec := activeExecutor(nil)
		missing := uuid.New()
		already := pendingRequest(nil)
		already.Status = domainrequest.StatusAssigned
		fresh := pendingRequest(nil)
		requests.EXPECT().GetByID(gomock.Any(), missing).
			Return(domainrequest.Request{}, portrequest.ErrNotFound)
		requests.EXPECT().GetByID(gomock.Any(), already.ID).Return(already, nil)
		requests.EXPECT().GetByID(gomock.Any(), fresh.ID).Return(fresh, nil)
		executors.EXPECT().LeastLoadedActive(gomock.Any()).Return(exec, nil)
		requests.EXPECT().CommitAssignment(gomock.Any(), fresh.ID, exec.ID, gomock.Any()).Return(true, nil)
		bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		assigned, err := svc.AutoDistribute(context.Background(), []uuid.UUID{missing, already.ID, fresh.ID})
		require.NoError(t, err)
		assert.Equal(t, 1, assigned)
	})

	t.Run("stops the batch when no executor is active", func(t *testing.T) {
		svc, requests, executors, locker, _ := newDistSvc(t)
		expectLock(locker)
		r1 := pendingRequest(nil)
		r2 := pendingRequest(nil)
		// r2 is never looked at once the batch stops.
		requests.EXPECT().GetByID(gomock.Any(), r1.ID).Return(r1, nil)
		executors.EXPECT().LeastLoadedActive(gomock.Any()).
			Return(domainexecutor.Executor{}, portexecutor.ErrNotFound)

		assigned, err := svc.AutoDistribute(context.Background(), []uuid.UUID{r1.ID, r2.ID})
		require.NoError(t, err)
		assert.Equal(t, 0, assigned)
	})

	t.Run("skips an id claimed concurrently", func(t *testing.T) {
		svc, requests, executors, locker, bus := newDistSvc(t)
		expectLock(locker)
		exec := activeExecutor(nil)
		lost := pendingRequest(nil)
		won := pendingRequest(nil)
		gomock.InOrder(
			requests.EXPECT().GetByID(gomock.Any(), lost.ID).Return(lost, nil),
			executors.EXPECT().LeastLoadedActive(gomock.Any()).Return(exec, nil),
			requests.EXPECT().CommitAssignment(gomock.Any(), lost.ID, exec.ID, gomock.Any()).Return(false, nil),
			requests.EXPECT().GetByID(gomock.Any(), won.ID).Return(won, nil),
			executors.EXPECT().LeastLoadedActive(gomock.Any()).Return(exec, nil),
			requests.EXPECT().CommitAssignment(gomock.Any(), won.ID, exec.ID, gomock.Any()).Return(true, nil),
		)
		bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		assigned, err := svc.AutoDistribute(context.Background(), []uuid.UUID{lost.ID, won.ID})
		require.NoError(t, err)
		assert.Equal(t, 1, assigned)
	})

	t.Run("empty id list is a no-op under the lock", func(t *testing.T) {
		svc, _, _, locker, _ := newDistSvc(t)
		expectLock(locker)

		assigned, err := svc.AutoDistribute(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, 0, assigned)
	})

	t.Run("lock failure surfaces", func(t *testing.T) {
		svc, _, _, locker, _ := newDistSvc(t)
		locker.EXPECT().WithLock(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("lock timeout"))

		_, err := svc.AutoDistribute(context.Background(), []uuid.UUID{uuid.New()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "auto distribute")
	})
}

// ── Stats ─────────────────────────────────────────────────────────────────────

func TestStats(t *testing.T) {
	held := []domainrequest.Status{domainrequest.StatusAssigned, domainrequest.StatusCompleted}

	t.Run("aggregates counts and orders executors by total assigned", func(t *testing.T) {
		svc, requests, executors, _, _ := newDistSvc(t)
		counts := domainrequest.StatusCounts{Total: 10, Pending: 6, Assigned: 3, Completed: 1}
		light := activeExecutor(nil)
		light.TotalAssigned = 2
		heavy := activeExecutor(nil)
		heavy.TotalAssigned = 7
		requests.EXPECT().StatusCounts(gomock.Any()).Return(counts, nil)
		executors.EXPECT().List(gomock.Any(), domainexecutor.ListFilters{}).
			Return([]domainexecutor.Executor{light, heavy}, nil)
		requests.EXPECT().CountByExecutorAndStatus(gomock.Any(), light.ID, held).Return(1, nil)
		requests.EXPECT().CountByExecutorAndStatus(gomock.Any(), heavy.ID, held).Return(3, nil)

		got, err := svc.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, counts, got.StatusCounts)
		assert.Equal(t, 2, got.ActiveExecutors)
		require.Len(t, got.Executors, 2)
		assert.Equal(t, heavy.ID, got.Executors[0].ID)
		assert.Equal(t, light.ID, got.Executors[1].ID)
		assert.Equal(t, 3, got.Executors[0].ActualCount)
		// actual counts 1 and 3: mean 2, max deviation 1 → 50%.
		assert.InDelta(t, 50.0, got.ImbalancePercent, 0.0001)
	})

	t.Run("imbalance rounds to two decimals", func(t *testing.T) {
		svc, requests, executors, _, _ := newDistSvc(t)
		a := activeExecutor(nil)
		b := activeExecutor(nil)
		requests.EXPECT().StatusCounts(gomock.Any()).Return(domainrequest.StatusCounts{}, nil)
		executors.EXPECT().List(gomock.Any(), gomock.Any()).
			Return([]domainexecutor.Executor{a, b}, nil)
		requests.EXPECT().CountByExecutorAndStatus(gomock.Any(), a.ID, held).Return(5, nil)
		requests.EXPECT().CountByExecutorAndStatus(gomock.Any(), b.ID, held).Return(1, nil)

		got, err := svc.Stats(context.Background())
		require.NoError(t, err)
		// counts 5 and 1: mean 3, max deviation 2 → 66.666…% → 66.67.
		assert.InDelta(t, 66.67, got.ImbalancePercent, 0.0001)
	})

	t.Run("fewer than two loaded executors means zero imbalance", func(t *testing.T) {
		svc, requests, executors, _, _ := newDistSvc(t)
		loaded := activeExecutor(nil)
		idle := activeExecutor(nil)
		requests.EXPECT().StatusCounts(gomock.Any()).Return(domainrequest.StatusCounts{}, nil)
		executors.EXPECT().List(gomock.Any(), gomock.Any()).
			Return([]domainexecutor.Executor{loaded, idle}, nil)
		requests.EXPECT().CountByExecutorAndStatus(gomock.Any(), loaded.ID, held).Return(4, nil)
		requests.EXPECT().CountByExecutorAndStatus(gomock.Any(), idle.ID, held).Return(0, nil)

		got, err := svc.Stats(context.Background())
		require.NoError(t, err)
		assert.Zero(t, got.ImbalancePercent)
	})

	t.Run("inactive executors appear in rows but not in the active count", func(t *testing.T) {
		svc, requests, executors, _, _ := newDistSvc(t)
		active := activeExecutor(nil)
		retired := activeExecutor(nil)
		retired.IsActive = false
		requests.EXPECT().StatusCounts(gomock.Any()).Return(domainrequest.StatusCounts{}, nil)
		executors.EXPECT().List(gomock.Any(), gomock.Any()).
			Return([]domainexecutor.Executor{active, retired}, nil)
		requests.EXPECT().CountByExecutorAndStatus(gomock.Any(), active.ID, held).Return(0, nil)
		requests.EXPECT().CountByExecutorAndStatus(gomock.Any(), retired.ID, held).Return(2, nil)

		got, err := svc.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, got.ActiveExecutors)
		assert.Len(t, got.Executors, 2)
	})

	t.Run("count error surfaces", func(t *testing.T) {
		svc, requests, _, _, _ := newDistSvc(t)
		requests.EXPECT().StatusCounts(gomock.Any()).
			Return(domainrequest.StatusCounts{}, errors.New("db error"))

		_, err := svc.Stats(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "count requests")
	})
}
