//go:build integration

package request_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pgexecutor "github.com/mvolkov/dispatch/internal/adapter/postgres/executor"
	pgrequest "github.com/mvolkov/dispatch/internal/adapter/postgres/request"
	domainexecutor "github.com/mvolkov/dispatch/internal/domain/executor"
	domainrequest "github.com/mvolkov/dispatch/internal/domain/request"
	portrequest "github.com/mvolkov/dispatch/internal/port/request"
	"github.com/mvolkov/dispatch/internal/testutil"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func makeExecutor(t *testing.T, ctx context.Context, r *pgexecutor.Repository) domainexecutor.Executor {
	t.Helper()
	created, err := r.Create(ctx, domainexecutor.New("exec-"+uuid.NewString()[:8], nil))
	require.NoError(t, err)
	return created
}

func makeRequest(t *testing.T, ctx context.Context, r *pgrequest.Repository, params domainrequest.Params) domainrequest.Request {
	t.Helper()
	created, err := r.Create(ctx, domainrequest.New(params))
	require.NoError(t, err)
	return created
}

// makeRequestAt pins created_at so ordering assertions are deterministic.
func makeRequestAt(t *testing.T, ctx context.Context, r *pgrequest.Repository, at time.Time) domainrequest.Request {
	t.Helper()
	req := domainrequest.New(nil)
	req.CreatedAt = at
	created, err := r.Create(ctx, req)
	require.NoError(t, err)
	return created
}

func assign(t *testing.T, ctx context.Context, r *pgrequest.Repository, reqID, execID uuid.UUID) {
	t.Helper()
	ok, err := r.CommitAssignment(ctx, reqID, execID, time.Now().UTC())
	require.NoError(t, err)
	require.True(t, ok)
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestRequestRepo_CreateGetRoundtrip(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := pgrequest.New(pool)

	params := domainrequest.Params{
		"source": "api",
		"parameters": map[string]any{
			"region": "eu-west",
			"size":   float64(3),
		},
	}
	req := makeRequest(t, ctx, repo, params)
	assert.Equal(t, domainrequest.StatusPending, req.Status)
	assert.Nil(t, req.AssignedTo)

	got, err := repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, req.ID, got.ID)
	assert.Equal(t, "api", got.Params["source"])
	assert.Equal(t, map[string]string{"region": "eu-west", "size": "3"}, got.Params.MatchValues())

	_, err = repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, portrequest.ErrNotFound)
}

func TestRequestRepo_ListRecentNewestFirst(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := pgrequest.New(pool)

	base := time.Now().UTC().Add(-time.Minute)
	oldest := makeRequestAt(t, ctx, repo, base)
	middle := makeRequestAt(t, ctx, repo, base.Add(time.Second))
	newest := makeRequestAt(t, ctx, repo, base.Add(2*time.Second))

	got, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newest.ID, got[0].ID)
	assert.Equal(t, middle.ID, got[1].ID)
	_ = oldest
}

func TestRequestRepo_PendingOrder(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := pgrequest.New(pool)
	execRepo := pgexecutor.New(pool)

	base := time.Now().UTC().Add(-time.Minute)
	first := makeRequestAt(t, ctx, repo, base)
	second := makeRequestAt(t, ctx, repo, base.Add(time.Second))
	third := makeRequestAt(t, ctx, repo, base.Add(2*time.Second))

	// Assigned requests leave the pending scan.
	exec := makeExecutor(t, ctx, execRepo)
	assign(t, ctx, repo, first.ID, exec.ID)

	pending, err := repo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, second.ID, pending[0].ID)
	assert.Equal(t, third.ID, pending[1].ID)

	head, err := repo.FirstPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, head.ID)
}

func TestRequestRepo_FirstPendingEmpty(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := pgrequest.New(pool)

	_, err := repo.FirstPending(ctx)
	require.ErrorIs(t, err, portrequest.ErrNotFound)
}

func TestRequestRepo_CommitAssignment(t *testing.T) {
	t.Run("claims pending request and bumps audit counter", func(t *testing.T) {
		pool := testutil.SetupTestDB(t)
		ctx := context.Background()
		repo := pgrequest.New(pool)
		execRepo := pgexecutor.New(pool)

		exec := makeExecutor(t, ctx, execRepo)
		req := makeRequest(t, ctx, repo, nil)
		at := time.Now().UTC()

		ok, err := repo.CommitAssignment(ctx, req.ID, exec.ID, at)
		require.NoError(t, err)
		require.True(t, ok)

		got, err := repo.GetByID(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, domainrequest.StatusAssigned, got.Status)
		require.NotNil(t, got.AssignedTo)
		assert.Equal(t, exec.ID, *got.AssignedTo)
		require.NotNil(t, got.AssignedAt)
		assert.WithinDuration(t, at, *got.AssignedAt, time.Millisecond)

		gotExec, err := execRepo.GetByID(ctx, exec.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, gotExec.TotalAssigned)
	})

	t.Run("returns false when request is no longer pending", func(t *testing.T) {
		pool := testutil.SetupTestDB(t)
		ctx := context.Background()
		repo := pgrequest.New(pool)
		execRepo := pgexecutor.New(pool)

		exec := makeExecutor(t, ctx, execRepo)
		other := makeExecutor(t, ctx, execRepo)
		req := makeRequest(t, ctx, repo, nil)
		assign(t, ctx, repo, req.ID, exec.ID)

		ok, err := repo.CommitAssignment(ctx, req.ID, other.ID, time.Now().UTC())
		require.NoError(t, err)
		assert.False(t, ok)

		// The losing claim must not touch the counter.
		gotOther, err := execRepo.GetByID(ctx, other.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, gotOther.TotalAssigned)
	})

	t.Run("rolls back the claim when the executor row is missing", func(t *testing.T) {
		pool := testutil.SetupTestDB(t)
		ctx := context.Background()
		repo := pgrequest.New(pool)

		req := makeRequest(t, ctx, repo, nil)

		_, err := repo.CommitAssignment(ctx, req.ID, uuid.New(), time.Now().UTC())
		require.Error(t, err)

		// The transaction must leave the request pending.
		got, err := repo.GetByID(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, domainrequest.StatusPending, got.Status)
		assert.Nil(t, got.AssignedTo)
	})
}

func TestRequestRepo_CompleteIfAssigned(t *testing.T) {
	t.Run("completes an assigned request and keeps the executor reference", func(t *testing.T) {
		pool := testutil.SetupTestDB(t)
		ctx := context.Background()
		repo := pgrequest.New(pool)
		execRepo := pgexecutor.New(pool)

		exec := makeExecutor(t, ctx, execRepo)
		req := makeRequest(t, ctx, repo, nil)
		assign(t, ctx, repo, req.ID, exec.ID)

		got, err := repo.CompleteIfAssigned(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, domainrequest.StatusCompleted, got.Status)
		require.NotNil(t, got.AssignedTo)
		assert.Equal(t, exec.ID, *got.AssignedTo)
	})

	t.Run("pending request cannot complete", func(t *testing.T) {
		pool := testutil.SetupTestDB(t)
		ctx := context.Background()
		repo := pgrequest.New(pool)

		req := makeRequest(t, ctx, repo, nil)

		_, err := repo.CompleteIfAssigned(ctx, req.ID)
		require.ErrorIs(t, err, portrequest.ErrNotAssigned)
	})

	t.Run("completed request cannot complete twice", func(t *testing.T) {
		pool := testutil.SetupTestDB(t)
		ctx := context.Background()
		repo := pgrequest.New(pool)
		execRepo := pgexecutor.New(pool)

		exec := makeExecutor(t, ctx, execRepo)
		req := makeRequest(t, ctx, repo, nil)
		assign(t, ctx, repo, req.ID, exec.ID)
		_, err := repo.CompleteIfAssigned(ctx, req.ID)
		require.NoError(t, err)

		_, err = repo.CompleteIfAssigned(ctx, req.ID)
		require.ErrorIs(t, err, portrequest.ErrNotAssigned)
	})

	t.Run("unknown id reports not found", func(t *testing.T) {
		pool := testutil.SetupTestDB(t)
		ctx := context.Background()
		repo := pgrequest.New(pool)

		_, err := repo.CompleteIfAssigned(ctx, uuid.New())
		require.ErrorIs(t, err, portrequest.ErrNotFound)
	})
}

func TestRequestRepo_StatusCounts(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := pgrequest.New(pool)
	execRepo := pgexecutor.New(pool)

	exec := makeExecutor(t, ctx, execRepo)
	makeRequest(t, ctx, repo, nil)
	makeRequest(t, ctx, repo, nil)

	assigned := makeRequest(t, ctx, repo, nil)
	assign(t, ctx, repo, assigned.ID, exec.ID)

	completed := makeRequest(t, ctx, repo, nil)
	assign(t, ctx, repo, completed.ID, exec.ID)
	_, err := repo.CompleteIfAssigned(ctx, completed.ID)
	require.NoError(t, err)

	counts, err := repo.StatusCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, domainrequest.StatusCounts{Total: 4, Pending: 2, Assigned: 1, Completed: 1}, counts)
}

func TestRequestRepo_CountByExecutorAndStatus(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := pgrequest.New(pool)
	execRepo := pgexecutor.New(pool)

	exec := makeExecutor(t, ctx, execRepo)
	other := makeExecutor(t, ctx, execRepo)

	held := []domainrequest.Status{domainrequest.StatusAssigned, domainrequest.StatusCompleted}

	r1 := makeRequest(t, ctx, repo, nil)
	assign(t, ctx, repo, r1.ID, exec.ID)

	r2 := makeRequest(t, ctx, repo, nil)
	assign(t, ctx, repo, r2.ID, exec.ID)
	_, err := repo.CompleteIfAssigned(ctx, r2.ID)
	require.NoError(t, err)

	r3 := makeRequest(t, ctx, repo, nil)
	assign(t, ctx, repo, r3.ID, other.ID)

	count, err := repo.CountByExecutorAndStatus(ctx, exec.ID, held)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = repo.CountByExecutorAndStatus(ctx, exec.ID, []domainrequest.Status{domainrequest.StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRequestRepo_CreateBatch(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := pgrequest.New(pool)

	batch := []domainrequest.Request{
		domainrequest.New(domainrequest.Params{"n": float64(1)}),
		domainrequest.New(domainrequest.Params{"n": float64(2)}),
	}
	created, err := repo.CreateBatch(ctx, batch)
	require.NoError(t, err)
	assert.Len(t, created, 2)

	counts, err := repo.StatusCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Total)

	empty, err := repo.CreateBatch(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, empty)
}
