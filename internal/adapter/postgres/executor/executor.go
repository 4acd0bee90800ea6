package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainexecutor "github.com/mvolkov/dispatch/internal/domain/executor"
	portexecutor "github.com/mvolkov/dispatch/internal/port/executor"
)

var _ portexecutor.Repository = (*Repository)(nil)

const uniqueViolation = "23505"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, e domainexecutor.Executor) (domainexecutor.Executor, error) {
	paramsJSON, err := json.Marshal(e.Params)
	if err != nil {
		return domainexecutor.Executor{}, fmt.Errorf("marshaling params: %w", err)
	}

	query := `
		INSERT INTO executors (id, name, params_jsonb, total_assigned, is_active, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, name, params_jsonb, total_assigned, is_active, created_at`

	var created domainexecutor.Executor
	var paramsBytes []byte
	err = r.pool.QueryRow(ctx, query,
		e.ID, e.Name, paramsJSON, e.TotalAssigned, e.IsActive, e.CreatedAt,
	).Scan(
		&created.ID, &created.Name, &paramsBytes,
		&created.TotalAssigned, &created.IsActive, &created.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domainexecutor.Executor{}, fmt.Errorf("executor %q: %w", e.Name, portexecutor.ErrAlreadyExists)
		}
		return domainexecutor.Executor{}, fmt.Errorf("inserting executor: %w", err)
	}

	if err := unmarshalParams(paramsBytes, &created); err != nil {
		return domainexecutor.Executor{}, err
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domainexecutor.Executor, error) {
	query := `
		SELECT id, name, params_jsonb, total_assigned, is_active, created_at
		FROM executors WHERE id = $1`

	return r.scanOne(ctx, query, id)
}

func (r *Repository) List(ctx context.Context, filters domainexecutor.ListFilters) ([]domainexecutor.Executor, error) {
	query := `
		SELECT id, name, params_jsonb, total_assigned, is_active, created_at
		FROM executors WHERE 1=1`

	args := []interface{}{}
	argIdx := 1

	if filters.IsActive != nil {
		query += fmt.Sprintf(" AND is_active = $%d", argIdx)
		args = append(args, *filters.IsActive)
		argIdx++
	}

	query += " ORDER BY created_at, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing executors: %w", err)
	}
	defer rows.Close()

	return scanExecutors(rows)
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, upd domainexecutor.Update) (domainexecutor.Executor, error) {
	query := `UPDATE executors SET id = id`

	args := []interface{}{}
	argIdx := 1

	if upd.Name != nil {
		query += fmt.Sprintf(", name = $%d", argIdx)
		args = append(args, *upd.Name)
		argIdx++
	}
	if upd.Params != nil {
		paramsJSON, err := json.Marshal(*upd.Params)
		if err != nil {
			return domainexecutor.Executor{}, fmt.Errorf("marshaling params: %w", err)
		}
		query += fmt.Sprintf(", params_jsonb = $%d", argIdx)
		args = append(args, paramsJSON)
		argIdx++
	}
	if upd.IsActive != nil {
		query += fmt.Sprintf(", is_active = $%d", argIdx)
		args = append(args, *upd.IsActive)
		argIdx++
	}

	query += fmt.Sprintf(" WHERE id = $%d RETURNING id, name, params_jsonb, total_assigned, is_active, created_at", argIdx)
	args = append(args, id)

	updated, err := r.scanOne(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domainexecutor.Executor{}, fmt.Errorf("renaming executor %s: %w", id, portexecutor.ErrAlreadyExists)
		}
		return domainexecutor.Executor{}, err
	}
	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM executors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting executor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return portexecutor.ErrNotFound
	}
	return nil
}

func (r *Repository) FindActive(ctx context.Context, id uuid.UUID) (domainexecutor.Executor, error) {
	query := `
		SELECT id, name, params_jsonb, total_assigned, is_active, created_at
		FROM executors WHERE id = $1 AND is_active`

	return r.scanOne(ctx, query, id)
}

func (r *Repository) ListActive(ctx context.Context) ([]domainexecutor.Executor, error) {
	query := `
		SELECT id, name, params_jsonb, total_assigned, is_active, created_at
		FROM executors WHERE is_active
		ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing active executors: %w", err)
	}
	defer rows.Close()

	return scanExecutors(rows)
}

func (r *Repository) LeastLoadedActive(ctx context.Context) (domainexecutor.Executor, error) {
	query := `
		SELECT id, name, params_jsonb, total_assigned, is_active, created_at
		FROM executors WHERE is_active
		ORDER BY total_assigned, id
		LIMIT 1`

	return r.scanOne(ctx, query)
}

func (r *Repository) scanOne(ctx context.Context, query string, args ...interface{}) (domainexecutor.Executor, error) {
	var e domainexecutor.Executor
	var paramsBytes []byte

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&e.ID, &e.Name, &paramsBytes, &e.TotalAssigned, &e.IsActive, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainexecutor.Executor{}, portexecutor.ErrNotFound
		}
		return domainexecutor.Executor{}, fmt.Errorf("querying executor: %w", err)
	}

	if err := unmarshalParams(paramsBytes, &e); err != nil {
		return domainexecutor.Executor{}, err
	}
	return e, nil
}

func scanExecutors(rows pgx.Rows) ([]domainexecutor.Executor, error) {
	var executors []domainexecutor.Executor
	for rows.Next() {
		var e domainexecutor.Executor
		var paramsBytes []byte
		if err := rows.Scan(
			&e.ID, &e.Name, &paramsBytes, &e.TotalAssigned, &e.IsActive, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning executor row: %w", err)
		}
		if err := unmarshalParams(paramsBytes, &e); err != nil {
			return nil, err
		}
		executors = append(executors, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating executor rows: %w", err)
	}
	return executors, nil
}

func unmarshalParams(b []byte, e *domainexecutor.Executor) error {
	if len(b) > 0 {
		if err := json.Unmarshal(b, &e.Params); err != nil {
			return fmt.Errorf("unmarshaling params: %w", err)
		}
	}
	return nil
}
