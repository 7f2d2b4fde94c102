package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is the minimal interface satisfied by *pgxpool.Pool and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test. Begin on a
// pgx.Tx opens a savepoint, so Update still gets its own nested transaction.
type db interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres stores documents in the kv_documents table.
// An empty value column means the key is absent.
type Postgres struct {
	db db
}

// NewPostgres constructs a Postgres backend over the given connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPostgres(db db) *Postgres {
	return &Postgres{db: db}
}

// Get reads the document under key.
func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT value FROM kv_documents WHERE doc_key = @key`

	var value []byte
	err := p.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key}).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("kv.Postgres.Get: %w", err)
	}
	if len(value) == 0 {
		return nil, ErrKeyNotFound
	}
	return value, nil
}

// Update locks the key's row for the duration of one transaction.
// The row is created first if missing so there is always something to lock;
// concurrent writers on the same key queue behind the FOR UPDATE.
func (p *Postgres) Update(ctx context.Context, key string, fn UpdateFunc) error {
	const (
		ensure = `
			INSERT INTO kv_documents (doc_key, value)
			VALUES (@key, ''::bytea)
			ON CONFLICT (doc_key) DO NOTHING`
		lock = `
			SELECT value FROM kv_documents
			WHERE doc_key = @key
			FOR UPDATE`
		write = `
			UPDATE kv_documents
			SET value      = @value,
			    version    = version + 1,
			    updated_at = now()
			WHERE doc_key = @key`
	)

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("kv.Postgres.Update: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	args := pgx.NamedArgs{"key": key}
	if _, err := tx.Exec(ctx, ensure, args); err != nil {
		return fmt.Errorf("kv.Postgres.Update: ensure row: %w", err)
	}

	var cur []byte
	if err := tx.QueryRow(ctx, lock, args).Scan(&cur); err != nil {
		return fmt.Errorf("kv.Postgres.Update: lock row: %w", err)
	}
	if len(cur) == 0 {
		cur = nil
	}

	next, err := fn(cur)
	if err != nil {
		return err
	}
	if next == nil {
		next = []byte{}
	}

	if _, err := tx.Exec(ctx, write, pgx.NamedArgs{"key": key, "value": next}); err != nil {
		return fmt.Errorf("kv.Postgres.Update: write: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("kv.Postgres.Update: commit: %w", err)
	}
	return nil
}

// Delete removes the key's row.
func (p *Postgres) Delete(ctx context.Context, key string) error {
	const q = `DELETE FROM kv_documents WHERE doc_key = @key`

	if _, err := p.db.Exec(ctx, q, pgx.NamedArgs{"key": key}); err != nil {
		return fmt.Errorf("kv.Postgres.Delete: %w", err)
	}
	return nil
}
