package request

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainrequest "github.com/mvolkov/dispatch/internal/domain/request"
	portrequest "github.com/mvolkov/dispatch/internal/port/request"
)

var _ portrequest.Repository = (*Repository)(nil)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, req domainrequest.Request) (domainrequest.Request, error) {
	paramsJSON, err := json.Marshal(req.Params)
	if err != nil {
		return domainrequest.Request{}, fmt.Errorf("marshaling params: %w", err)
	}

	query := `
		INSERT INTO requests (id, params_jsonb, status, assigned_to, assigned_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, params_jsonb, status, assigned_to, assigned_at, created_at`

	var created domainrequest.Request
	var paramsBytes []byte
	err = r.pool.QueryRow(ctx, query,
		req.ID, paramsJSON, req.Status, req.AssignedTo, req.AssignedAt, req.CreatedAt,
	).Scan(
		&created.ID, &paramsBytes, &created.Status,
		&created.AssignedTo, &created.AssignedAt, &created.CreatedAt,
	)
	if err != nil {
		return domainrequest.Request{}, fmt.Errorf("inserting request: %w", err)
	}

	if err := unmarshalParams(paramsBytes, &created); err != nil {
		return domainrequest.Request{}, err
	}
	return created, nil
}

func (r *Repository) CreateBatch(ctx context.Context, rs []domainrequest.Request) ([]domainrequest.Request, error) {
	if len(rs) == 0 {
		return nil, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning batch insert: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	query := `
		INSERT INTO requests (id, params_jsonb, status, assigned_to, assigned_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`

	for i, req := range rs {
		paramsJSON, err := json.Marshal(req.Params)
		if err != nil {
			return nil, fmt.Errorf("marshaling params for request %d: %w", i, err)
		}
		if _, err := tx.Exec(ctx, query,
			req.ID, paramsJSON, req.Status, req.AssignedTo, req.AssignedAt, req.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("inserting request %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing batch insert: %w", err)
	}
	return rs, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domainrequest.Request, error) {
	query := `
		SELECT id, params_jsonb, status, assigned_to, assigned_at, created_at
		FROM requests WHERE id = $1`

	return r.scanOne(ctx, query, id)
}

func (r *Repository) ListRecent(ctx context.Context, limit int) ([]domainrequest.Request, error) {
	query := `
		SELECT id, params_jsonb, status, assigned_to, assigned_at, created_at
		FROM requests
		ORDER BY created_at DESC, id DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent requests: %w", err)
	}
	defer rows.Close()

	return scanRequests(rows)
}

func (r *Repository) ListPending(ctx context.Context) ([]domainrequest.Request, error) {
	query := `
		SELECT id, params_jsonb, status, assigned_to, assigned_at, created_at
		FROM requests
		WHERE status = 'pending'
		ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing pending requests: %w", err)
	}
	defer rows.Close()

	return scanRequests(rows)
}

func (r *Repository) FirstPending(ctx context.Context) (domainrequest.Request, error) {
	query := `
		SELECT id, params_jsonb, status, assigned_to, assigned_at, created_at
		FROM requests
		WHERE status = 'pending'
		ORDER BY created_at, id
		LIMIT 1`

	return r.scanOne(ctx, query)
}

func (r *Repository) StatusCounts(ctx context.Context) (domainrequest.StatusCounts, error) {
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'assigned'),
			COUNT(*) FILTER (WHERE status = 'completed')
		FROM requests`

	var c domainrequest.StatusCounts
	if err := r.pool.QueryRow(ctx, query).Scan(&c.Total, &c.Pending, &c.Assigned, &c.Completed); err != nil {
		return domainrequest.StatusCounts{}, fmt.Errorf("counting requests: %w", err)
	}
	return c, nil
}

func (r *Repository) CountByExecutorAndStatus(ctx context.Context, executorID uuid.UUID, statuses []domainrequest.Status) (int, error) {
	vals := make([]string, len(statuses))
	for i, s := range statuses {
		vals[i] = string(s)
	}

	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM requests WHERE assigned_to = $1 AND status = ANY($2)`,
		executorID, vals,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting requests for executor %s: %w", executorID, err)
	}
	return count, nil
}

func (r *Repository) CompleteIfAssigned(ctx context.Context, id uuid.UUID) (domainrequest.Request, error) {
	query := `
		UPDATE requests SET status = 'completed'
		WHERE id = $1 AND status = 'assigned'
		RETURNING id, params_jsonb, status, assigned_to, assigned_at, created_at`

	req, err := r.scanOne(ctx, query, id)
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, portrequest.ErrNotFound) {
		return domainrequest.Request{}, err
	}

	// CAS missed: distinguish an unknown id from a wrong status.
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return domainrequest.Request{}, getErr
	}
	return domainrequest.Request{}, fmt.Errorf("completing request %s: %w", id, portrequest.ErrNotAssigned)
}

// CommitAssignment claims a pending request for an executor and bumps the
// executor's audit counter in one transaction. A false return means the
// request was no longer pending; callers reselect against refreshed state.
func (r *Repository) CommitAssignment(ctx context.Context, id, executorID uuid.UUID, at time.Time) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("beginning assignment: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx, `
		UPDATE requests SET status = 'assigned', assigned_to = $2, assigned_at = $3
		WHERE id = $1 AND status = 'pending'`,
		id, executorID, at,
	)
	if err != nil {
		return false, fmt.Errorf("claiming request %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	tag, err = tx.Exec(ctx,
		`UPDATE executors SET total_assigned = total_assigned + 1 WHERE id = $1`,
		executorID,
	)
	if err != nil {
		return false, fmt.Errorf("incrementing executor %s counter: %w", executorID, err)
	}
	if tag.RowsAffected() == 0 {
		return false, fmt.Errorf("incrementing counter: executor %s not found", executorID)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("committing assignment: %w", err)
	}
	return true, nil
}

func (r *Repository) scanOne(ctx context.Context, query string, args ...interface{}) (domainrequest.Request, error) {
	var req domainrequest.Request
	var paramsBytes []byte

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&req.ID, &paramsBytes, &req.Status,
		&req.AssignedTo, &req.AssignedAt, &req.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainrequest.Request{}, portrequest.ErrNotFound
		}
		return domainrequest.Request{}, fmt.Errorf("querying request: %w", err)
	}

	if err := unmarshalParams(paramsBytes, &req); err != nil {
		return domainrequest.Request{}, err
	}
	return req, nil
}

func scanRequests(rows pgx.Rows) ([]domainrequest.Request, error) {
	var requests []domainrequest.Request
	for rows.Next() {
		var req domainrequest.Request
		var paramsBytes []byte
		if err := rows.Scan(
			&req.ID, &paramsBytes, &req.Status,
			&req.AssignedTo, &req.AssignedAt, &req.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning request row: %w", err)
		}
		if err := unmarshalParams(paramsBytes, &req); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating request rows: %w", err)
	}
	return requests, nil
}

func unmarshalParams(b []byte, req *domainrequest.Request) error {
	if len(b) > 0 {
		if err := json.Unmarshal(b, &req.Params); err != nil {
			return fmt.Errorf("unmarshaling params: %w", err)
		}
	}
	return nil
}
