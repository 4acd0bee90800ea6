//go:build integration

package executor_test

import (
	"bytes"
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
	portexecutor "github.com/mvolkov/dispatch/internal/port/executor"
	"github.com/mvolkov/dispatch/internal/testutil"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func makeExecutor(t *testing.T, ctx context.Context, r *pgexecutor.Repository, name string, params map[string]string) domainexecutor.Executor {
	t.Helper()
	created, err := r.Create(ctx, domainexecutor.New(name, params))
	require.NoError(t, err)
	return created
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// bytesCompare orders UUIDs the way postgres does, byte-wise.
func bytesCompare(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) }

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestExecutorRepo_CreateGetRoundtrip(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := pgexecutor.New(pool)

	exec := makeExecutor(t, ctx, repo, "worker-eu", map[string]string{"region": "eu-west", "tier": "gold"})
	assert.True(t, exec.IsActive)
	assert.Zero(t, exec.TotalAssigned)

	got, err := repo.GetByID(ctx, exec.ID)
	require.NoError(t, err)
	assert.Equal(t, "worker-eu", got.Name)
	assert.Equal(t, map[string]string{"region": "eu-west", "tier": "gold"}, got.Params)

	_, err = repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, portexecutor.ErrNotFound)
}

func TestExecutorRepo_CreateDuplicateName(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := pgexecutor.New(pool)

	makeExecutor(t, ctx, repo, "worker-dup", nil)

	_, err := repo.Create(ctx, domainexecutor.New("worker-dup", nil))
	require.ErrorIs(t, err, portexecutor.ErrAlreadyExists)
}

func TestExecutorRepo_ListFilters(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := pgexecutor.New(pool)

	active := makeExecutor(t, ctx, repo, "worker-a", nil)
	inactive := makeExecutor(t, ctx, repo, "worker-b", nil)
	_, err := repo.Update(ctx, inactive.ID, domainexecutor.Update{IsActive: boolPtr(false)})
	require.NoError(t, err)

	all, err := repo.List(ctx, domainexecutor.ListFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyActive, err := repo.List(ctx, domainexecutor.ListFilters{IsActive: boolPtr(true)})
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, active.ID, onlyActive[0].ID)

	fromHelper, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, fromHelper, 1)
	assert.Equal(t, active.ID, fromHelper[0].ID)
}

func TestExecutorRepo_Update(t *testing.T) {
	t.Run("partial update touches only provided fields", func(t *testing.T) {
		pool := testutil.SetupTestDB(t)
		ctx := context.Background()
		repo := pgexecutor.New(pool)

		exec := makeExecutor(t, ctx, repo, "worker-old", map[string]string{"region": "eu-west"})

		got, err := repo.Update(ctx, exec.ID, domainexecutor.Update{Name: strPtr("worker-new")})
		require.NoError(t, err)
		assert.Equal(t, "worker-new", got.Name)
		assert.Equal(t, map[string]string{"region": "eu-west"}, got.Params, "params untouched")
		assert.True(t, got.IsActive)
	})

	t.Run("params are replaced wholesale", func(t *testing.T) {
		pool := testutil.SetupTestDB(t)
		ctx := context.Background()
		repo := pgexecutor.New(pool)

		exec := makeExecutor(t, ctx, repo, "worker-p", map[string]string{"region": "eu-west", "tier": "gold"})

		got, err := repo.Update(ctx, exec.ID, domainexecutor.Update{Params: &map[string]string{"region": "us-east"}})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"region": "us-east"}, got.Params)
	})

	t.Run("rename onto an existing name conflicts", func(t *testing.T) {
		pool := testutil.SetupTestDB(t)
		ctx := context.Background()
		repo := pgexecutor.New(pool)

		makeExecutor(t, ctx, repo, "worker-taken", nil)
		exec := makeExecutor(t, ctx, repo, "worker-free", nil)

		_, err := repo.Update(ctx, exec.ID, domainexecutor.Update{Name: strPtr("worker-taken")})
		require.ErrorIs(t, err, portexecutor.ErrAlreadyExists)
	})

	t.Run("unknown id reports not found", func(t *testing.T) {
		pool := testutil.SetupTestDB(t)
		ctx := context.Background()
		repo := pgexecutor.New(pool)

		_, err := repo.Update(ctx, uuid.New(), domainexecutor.Update{IsActive: boolPtr(false)})
		require.ErrorIs(t, err, portexecutor.ErrNotFound)
	})
}

func TestExecutorRepo_DeleteKeepsRequestHistory(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := pgexecutor.New(pool)
	reqRepo := pgrequest.New(pool)

	exec := makeExecutor(t, ctx, repo, "worker-gone", nil)
	req, err := reqRepo.Create(ctx, domainrequest.New(nil))
	require.NoError(t, err)
	ok, err := reqRepo.CommitAssignment(ctx, req.ID, exec.ID, time.Now().UTC())
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, repo.Delete(ctx, exec.ID))

	_, err = repo.GetByID(ctx, exec.ID)
	require.ErrorIs(t, err, portexecutor.ErrNotFound)

	// assigned_to is a weak reference; history survives the executor.
	got, err := reqRepo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AssignedTo)
	assert.Equal(t, exec.ID, *got.AssignedTo)

	require.ErrorIs(t, repo.Delete(ctx, exec.ID), portexecutor.ErrNotFound)
}

func TestExecutorRepo_FindActive(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := pgexecutor.New(pool)

	exec := makeExecutor(t, ctx, repo, "worker-f", nil)

	got, err := repo.FindActive(ctx, exec.ID)
	require.NoError(t, err)
	assert.Equal(t, exec.ID, got.ID)

	_, err = repo.Update(ctx, exec.ID, domainexecutor.Update{IsActive: boolPtr(false)})
	require.NoError(t, err)

	_, err = repo.FindActive(ctx, exec.ID)
	require.ErrorIs(t, err, portexecutor.ErrNotFound, "inactive executor must not be found")

	_, err = repo.FindActive(ctx, uuid.New())
	require.ErrorIs(t, err, portexecutor.ErrNotFound)
}

func TestExecutorRepo_LeastLoadedActive(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := pgexecutor.New(pool)
	reqRepo := pgrequest.New(pool)

	busy := makeExecutor(t, ctx, repo, "worker-busy", nil)
	idle := makeExecutor(t, ctx, repo, "worker-idle", nil)
	offline := makeExecutor(t, ctx, repo, "worker-off", nil)
	_, err := repo.Update(ctx, offline.ID, domainexecutor.Update{IsActive: boolPtr(false)})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		req, err := reqRepo.Create(ctx, domainrequest.New(nil))
		require.NoError(t, err)
		ok, err := reqRepo.CommitAssignment(ctx, req.ID, busy.ID, time.Now().UTC())
		require.NoError(t, err)
		require.True(t, ok)
	}

	got, err := repo.LeastLoadedActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, idle.ID, got.ID, "lowest audit counter wins")

	// Tie on the counter falls back to the lower id.
	second := makeExecutor(t, ctx, repo, "worker-tie", nil)
	want := idle.ID
	if bytesCompare(second.ID, idle.ID) < 0 {
		want = second.ID
	}
	got, err = repo.LeastLoadedActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got.ID)

	// Deactivate everyone → no candidate.
	for _, id := range []uuid.UUID{busy.ID, idle.ID, second.ID} {
		_, err = repo.Update(ctx, id, domainexecutor.Update{IsActive: boolPtr(false)})
		require.NoError(t, err)
	}

	_, err = repo.LeastLoadedActive(ctx)
	require.ErrorIs(t, err, portexecutor.ErrNotFound)
}
