// Package repo contains all storage access logic for the Wanderly API.
// Each entity kind has its own file with an interface and an implementation
// that keeps the whole kind as one JSON array under a fixed key in a
// kv.Backend. No business logic lives here, only collection bookkeeping.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/pkordes/wanderly/internal/kv"
)

// Storage keys, one per entity kind plus the current-user pointer.
const (
	keyUsers       = "wanderly_users"
	keyCredentials = "wanderly_credentials"
	keyTrips       = "wanderly_trips"
	keyMembers     = "wanderly_members"
	keyActivities  = "wanderly_activities"
	keyVotes       = "wanderly_votes"
	keyMessages    = "wanderly_messages"
	keyCurrentUser = "wanderly_user"
)

// Options configures every repo built by NewStore.
type Options struct {
	// Logger receives warnings about corrupt stored documents.
	// Defaults to slog.Default().
	Logger *slog.Logger

	// Now stamps created_at/updated_at fields. Defaults to time.Now in UTC.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Now == nil {
		o.Now = func() time.Time { return time.Now().UTC() }
	}
	return o
}

// collection maps one entity kind to one backend key.
// Every write decodes the whole array, applies a change and rewrites it
// inside a single Backend.Update, so a write is atomic per kind.
type collection[T any] struct {
	backend kv.Backend
	key     string
	logger  *slog.Logger
}

func newCollection[T any](b kv.Backend, key string, logger *slog.Logger) collection[T] {
	return collection[T]{backend: b, key: key, logger: logger}
}

// load returns every stored item in insertion order.
// An absent key yields an empty slice.
func (c collection[T]) load(ctx context.Context) ([]T, error) {
	raw, err := c.backend.Get(ctx, c.key)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c.decode(raw), nil
}

// decode parses a stored array. A document that does not parse is logged
// and treated as empty; the next write replaces it.
func (c collection[T]) decode(raw []byte) []T {
	if len(raw) == 0 {
		return nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		c.logger.Warn("corrupt collection treated as empty",
			slog.String("key", c.key),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return items
}

// mutate runs fn over the current items and stores what it returns.
// fn may run more than once and must only transform its argument.
func (c collection[T]) mutate(ctx context.Context, fn func(items []T) ([]T, error)) error {
	return c.backend.Update(ctx, c.key, func(cur []byte) ([]byte, error) {
		next, err := fn(c.decode(cur))
		if err != nil {
			return nil, err
		}
		if next == nil {
			next = []T{}
		}
		return json.Marshal(next)
	})
}

// find returns the first item matching pred.
func find[T any](items []T, pred func(T) bool) (T, bool) {
	for _, it := range items {
		if pred(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// filter returns the items matching pred, preserving order.
func filter[T any](items []T, pred func(T) bool) []T {
	var out []T
	for _, it := range items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

// indexOf returns the position of the first item matching pred, or -1.
func indexOf[T any](items []T, pred func(T) bool) int {
	for i, it := range items {
		if pred(it) {
			return i
		}
	}
	return -1
}
