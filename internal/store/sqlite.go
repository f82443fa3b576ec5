package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/i474232898/walkd/internal/walk"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS walks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	date_ns INTEGER NOT NULL,
	duration INTEGER NOT NULL,
	distance REAL NOT NULL,
	steps INTEGER NOT NULL,
	created_at_ns INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS walks_date_idx ON walks (date_ns DESC, id);`

const sqliteColumns = `id, date_ns, duration, distance, steps, created_at_ns`

// SQLiteStore persists walk records in a SQLite database file.
// Timestamps are stored as unix nanoseconds so ORDER BY sorts them numerically.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path. The schema is not
// created here; call Migrate before serving traffic.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		file, _, _ := strings.Cut(strings.TrimPrefix(path, "file:"), "?")
		if dir := filepath.Dir(file); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("%w: create database dir: %w", walk.ErrStorage, err)
			}
		}
	}

	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %w", walk.ErrStorage, err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}
	return &SQLiteStore{db: db}, nil
}

func sqliteDSN(path string) string {
	if path == ":memory:" {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Migrate creates the walks table and its date index.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("%w: migrate: %w", walk.ErrStorage, err)
	}
	return nil
}

// Insert stores a new record and returns it with its assigned id.
func (s *SQLiteStore) Insert(ctx context.Context, rec walk.Record) (walk.Record, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO walks (date_ns, duration, distance, steps, created_at_ns) VALUES (?, ?, ?, ?, ?)`,
		rec.Date.UnixNano(),
		rec.Duration,
		rec.Distance,
		rec.Steps,
		rec.CreatedAt.UnixNano(),
	)
	if err != nil {
		return walk.Record{}, fmt.Errorf("%w: insert: %w", walk.ErrStorage, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return walk.Record{}, fmt.Errorf("%w: insert id: %w", walk.ErrStorage, err)
	}
	rec.ID = id
	return rec, nil
}

// List returns all records, newest date first.
func (s *SQLiteStore) List(ctx context.Context) ([]walk.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqliteColumns+` FROM walks ORDER BY date_ns DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %w", walk.ErrStorage, err)
	}
	defer rows.Close()

	records := []walk.Record{}
	for rows.Next() {
		rec, err := scanSQLiteRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan: %w", walk.ErrStorage, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list: %w", walk.ErrStorage, err)
	}
	return records, nil
}

// Latest returns the record with the greatest date.
func (s *SQLiteStore) Latest(ctx context.Context) (walk.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteColumns+` FROM walks ORDER BY date_ns DESC, id ASC LIMIT 1`)
	rec, err := scanSQLiteRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return walk.Record{}, walk.ErrNotFound
		}
		return walk.Record{}, fmt.Errorf("%w: latest: %w", walk.ErrStorage, err)
	}
	return rec, nil
}

// Delete removes the record with the given id.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM walks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: delete: %w", walk.ErrStorage, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: delete: %w", walk.ErrStorage, err)
	}
	if n == 0 {
		return walk.ErrNotFound
	}
	return nil
}

// Ping checks that the database file is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping: %w", walk.ErrStorage, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteRecord(row rowScanner) (walk.Record, error) {
	var (
		rec              walk.Record
		dateNS, createNS int64
	)
	if err := row.Scan(&rec.ID, &dateNS, &rec.Duration, &rec.Distance, &rec.Steps, &createNS); err != nil {
		return walk.Record{}, err
	}
	rec.Date = time.Unix(0, dateNS).UTC()
	rec.CreatedAt = time.Unix(0, createNS).UTC()
	return rec, nil
}

var _ walk.Store = (*SQLiteStore)(nil)
