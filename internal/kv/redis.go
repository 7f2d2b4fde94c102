package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// defaultRedisRetries bounds how many times Update re-runs after another
// client modified the watched key.
const defaultRedisRetries = 8

// Redis stores documents as plain string values.
// Update is an optimistic compare-and-swap built on WATCH/MULTI/EXEC.
type Redis struct {
	client  redis.UniversalClient
	retries int
}

// NewRedis wraps an existing client.
func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client, retries: defaultRedisRetries}
}

// DialRedis parses a redis:// URL, opens a client and verifies connectivity.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, errors.New("kv.DialRedis: redis url is required")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("kv.DialRedis: parse url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("kv.DialRedis: ping: %w", err)
	}
	return client, nil
}

// Get reads the document under key.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	doc, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("kv.Redis.Get: %w", err)
	}
	return doc, nil
}

// Update watches key, computes the next document and commits it in a
// MULTI block. If another client touched the key in between, EXEC fails
// with redis.TxFailedErr and the whole cycle runs again.
// Returns ErrConflict once the retry budget is spent.
func (r *Redis) Update(ctx context.Context, key string, fn UpdateFunc) error {
	for attempt := 0; attempt < r.retries; attempt++ {
		var fnErr error
		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			cur, err := tx.Get(ctx, key).Bytes()
			if err != nil && !errors.Is(err, redis.Nil) {
				return err
			}

			next, err := fn(cur)
			if err != nil {
				fnErr = err
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				if len(next) == 0 {
					pipe.Del(ctx, key)
					return nil
				}
				pipe.Set(ctx, key, next, 0)
				return nil
			})
			return err
		}, key)

		switch {
		case err == nil:
			return nil
		case fnErr != nil:
			return fnErr
		case errors.Is(err, redis.TxFailedErr):
			continue
		default:
			return fmt.Errorf("kv.Redis.Update: %w", err)
		}
	}
	return fmt.Errorf("kv.Redis.Update: %s: %w", key, ErrConflict)
}

// Delete removes key.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("kv.Redis.Delete: %w", err)
	}
	return nil
}
