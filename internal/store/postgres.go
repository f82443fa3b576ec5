package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/i474232898/walkd/internal/walk"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS walks (
	id BIGSERIAL PRIMARY KEY,
	date TIMESTAMPTZ NOT NULL,
	duration BIGINT NOT NULL,
	distance DOUBLE PRECISION NOT NULL,
	steps BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
ALTER TABLE walks ALTER COLUMN duration TYPE BIGINT, ALTER COLUMN steps TYPE BIGINT;
CREATE INDEX IF NOT EXISTS walks_date_idx ON walks (date DESC, id);`

const postgresColumns = `id, date, duration, distance, steps, created_at`

// PostgresStore provides Postgres-backed persistence for walk records.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects a pool to the given database URL.
func NewPostgresStore(ctx context.Context, url string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: connect postgres: %w", walk.ErrStorage, err)
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresStoreFromPool wraps an existing pool.
func NewPostgresStoreFromPool(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the walks table and its date index.
func (r *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("%w: migrate: %w", walk.ErrStorage, err)
	}
	return nil
}

// Insert persists the record and returns it with its generated id.
func (r *PostgresStore) Insert(ctx context.Context, rec walk.Record) (walk.Record, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return walk.Record{}, fmt.Errorf("%w: acquire: %w", walk.ErrStorage, err)
	}
	defer conn.Release()

	const stmt = `INSERT INTO walks (date, duration, distance, steps, created_at)
        VALUES ($1,$2,$3,$4,$5) RETURNING id`

	if err := conn.QueryRow(ctx, stmt, rec.Date, rec.Duration, rec.Distance, rec.Steps, rec.CreatedAt).Scan(&rec.ID); err != nil {
		return walk.Record{}, fmt.Errorf("%w: insert: %w", walk.ErrStorage, err)
	}
	return rec, nil
}

// List returns all records ordered by date, newest first.
func (r *PostgresStore) List(ctx context.Context) ([]walk.Record, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: acquire: %w", walk.ErrStorage, err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `SELECT `+postgresColumns+` FROM walks ORDER BY date DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %w", walk.ErrStorage, err)
	}
	defer rows.Close()

	results := []walk.Record{}
	for rows.Next() {
		rec, err := scanPostgresRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan: %w", walk.ErrStorage, err)
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list: %w", walk.ErrStorage, err)
	}
	return results, nil
}

// Latest returns the record with the greatest date.
func (r *PostgresStore) Latest(ctx context.Context) (walk.Record, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return walk.Record{}, fmt.Errorf("%w: acquire: %w", walk.ErrStorage, err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `SELECT `+postgresColumns+` FROM walks ORDER BY date DESC, id ASC LIMIT 1`)
	rec, err := scanPostgresRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return walk.Record{}, walk.ErrNotFound
		}
		return walk.Record{}, fmt.Errorf("%w: latest: %w", walk.ErrStorage, err)
	}
	return rec, nil
}

// Delete removes the record with the given id.
func (r *PostgresStore) Delete(ctx context.Context, id int64) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("%w: acquire: %w", walk.ErrStorage, err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM walks WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete: %w", walk.ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return walk.ErrNotFound
	}
	return nil
}

// Ping checks connectivity to Postgres.
func (r *PostgresStore) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: ping: %w", walk.ErrStorage, err)
	}
	return nil
}

// Close closes the pool.
func (r *PostgresStore) Close() error {
	r.pool.Close()
	return nil
}

func scanPostgresRecord(row pgx.Row) (walk.Record, error) {
	var rec walk.Record
	if err := row.Scan(&rec.ID, &rec.Date, &rec.Duration, &rec.Distance, &rec.Steps, &rec.CreatedAt); err != nil {
		return walk.Record{}, err
	}
	rec.Date = rec.Date.UTC()
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, nil
}

var _ walk.Store = (*PostgresStore)(nil)
