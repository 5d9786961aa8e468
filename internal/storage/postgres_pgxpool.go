package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPoolStorage talks to postgres directly through a pgx pool.
type PostgresPoolStorage struct {
	pool  *pgxpool.Pool
	locks sessionLocks[*pgxpool.Conn]
}

func OpenPostgresPool(ctx context.Context, dsn string) (*PostgresPoolStorage, error) {
	if dsn == "" {
		dsn = "postgres://localhost:5432/locadora?sslmode=disable"
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	return &PostgresPoolStorage{pool: pool}, nil
}

func (s *PostgresPoolStorage) Close() error {
	s.locks.drain(func(c *pgxpool.Conn) { c.Release() })
	s.pool.Close()
	return nil
}

func (s *PostgresPoolStorage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresPoolStorage) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS listing_snapshots (
			id BIGSERIAL PRIMARY KEY,
			source TEXT NOT NULL,
			payload BYTEA NOT NULL,
			row_count INTEGER NOT NULL DEFAULT 0,
			fetched_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_listing_snapshots_source ON listing_snapshots (source, fetched_at DESC)`,
		`CREATE TABLE IF NOT EXISTS scheduled_jobs (
			name TEXT PRIMARY KEY,
			last_run_at TIMESTAMPTZ,
			last_duration_ms BIGINT,
			last_success BOOLEAN,
			last_error TEXT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresPoolStorage) GetListingSnapshot(ctx context.Context, source string) (*ListingSnapshot, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, payload, row_count, fetched_at
		FROM listing_snapshots
		WHERE source=$1
		ORDER BY fetched_at DESC, id DESC
		LIMIT 1
	`, source)

	snap := ListingSnapshot{Source: source}
	var id int64
	if err := row.Scan(&id, &snap.Payload, &snap.RowCount, &snap.FetchedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	snap.ID = uint(id)
	return &snap, nil
}

func (s *PostgresPoolStorage) SaveListingSnapshot(ctx context.Context, snap ListingSnapshot) error {
	if snap.FetchedAt.IsZero() {
		snap.FetchedAt = time.Now()
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO listing_snapshots (source, payload, row_count, fetched_at)
		VALUES ($1,$2,$3,$4)
	`, snap.Source, snap.Payload, snap.RowCount, snap.FetchedAt); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		DELETE FROM listing_snapshots
		WHERE source=$1 AND id NOT IN (
			SELECT id FROM listing_snapshots WHERE source=$1
			ORDER BY fetched_at DESC, id DESC LIMIT $2
		)
	`, snap.Source, snapshotsKept); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// AcquireAdvisoryLock takes a session-level lock on a connection that stays
// checked out of the pool until ReleaseAdvisoryLock.
func (s *PostgresPoolStorage) AcquireAdvisoryLock(ctx context.Context, key int64) (bool, error) {
	return s.locks.acquire(key, func() (*pgxpool.Conn, bool, error) {
		conn, err := s.pool.Acquire(ctx)
		if err != nil {
			return nil, false, err
		}
		var ok bool
		if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, key).Scan(&ok); err != nil || !ok {
			conn.Release()
			return nil, false, err
		}
		return conn, true, nil
	})
}

func (s *PostgresPoolStorage) ReleaseAdvisoryLock(ctx context.Context, key int64) (bool, error) {
	return s.locks.release(key, func(conn *pgxpool.Conn) (bool, error) {
		defer conn.Release()
		var ok bool
		err := conn.QueryRow(ctx, `SELECT pg_advisory_unlock($1)`, key).Scan(&ok)
		return ok, err
	})
}

func (s *PostgresPoolStorage) UpdateScheduledJob(ctx context.Context, name string, started time.Time, dur time.Duration, success bool, errMsg string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO scheduled_jobs (name, last_run_at, last_duration_ms, last_success, last_error)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (name) DO UPDATE SET
			last_run_at=EXCLUDED.last_run_at,
			last_duration_ms=EXCLUDED.last_duration_ms,
			last_success=EXCLUDED.last_success,
			last_error=EXCLUDED.last_error
	`, name, started, dur.Milliseconds(), success, errMsg)
	return err
}

func (s *PostgresPoolStorage) GetScheduledJob(ctx context.Context, name string) (*ScheduledJob, error) {
	job := ScheduledJob{Name: name}
	var lastErr *string
	err := s.pool.QueryRow(ctx, `
		SELECT last_run_at, last_duration_ms, last_success, last_error
		FROM scheduled_jobs WHERE name=$1
	`, name).Scan(&job.LastRunAt, &job.LastDurationMs, &job.LastSuccess, &lastErr)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if lastErr != nil {
		job.LastError = *lastErr
	}
	return &job, nil
}
