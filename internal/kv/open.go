package kv

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/wanderly/migrations"
)

// Kind names a backend implementation.
type Kind string

const (
	KindMemory   Kind = "memory"
	KindPostgres Kind = "postgres"
	KindRedis    Kind = "redis"
	KindSQLite   Kind = "sqlite"
)

// Options selects and configures the backend returned by Open.
type Options struct {
	Kind        Kind
	DatabaseURL string // postgres
	RedisURL    string // redis
	SQLitePath  string // sqlite
}

// Open constructs the backend named by opts.Kind and verifies it is reachable.
// For Postgres it also applies pending goose migrations.
// The returned close func releases the backend's connections.
func Open(ctx context.Context, opts Options) (Backend, func(), error) {
	switch opts.Kind {
	case KindMemory:
		return NewMemory(), func() {}, nil

	case KindPostgres:
		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("kv.Open: create pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("kv.Open: ping postgres: %w", err)
		}
		if err := migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return NewPostgres(pool), pool.Close, nil

	case KindRedis:
		client, err := DialRedis(ctx, opts.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("kv.Open: %w", err)
		}
		return NewRedis(client), func() { _ = client.Close() }, nil

	case KindSQLite:
		s, err := OpenSQLite(opts.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("kv.Open: %w", err)
		}
		return s, func() { _ = s.Close() }, nil
	}
	return nil, nil, fmt.Errorf("kv.Open: unknown backend %q", opts.Kind)
}

// migrate applies the embedded goose migrations through a database/sql
// handle borrowed from the pool.
func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("kv.Open: create goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("kv.Open: run migrations: %w", err)
	}
	return nil
}
