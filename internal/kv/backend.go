// Package kv provides the key-value document backends that the repo layer
// stores its collections in. Each key holds one opaque document (a JSON
// array in practice). Writes go through Update, an atomic read-modify-write
// of a single key, so concurrent writers never lose each other's changes.
package kv

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when the key holds no document.
var ErrKeyNotFound = errors.New("kv: key not found")

// ErrConflict is returned by optimistic backends when a write kept losing
// the race for a key and the retry budget ran out.
var ErrConflict = errors.New("kv: write conflict")

// UpdateFunc receives the current document for a key (nil when absent) and
// returns the document to store in its place. It may be called more than
// once for a single Update and must not have side effects. Returning an
// error aborts the write; the error is passed through unchanged.
type UpdateFunc func(cur []byte) ([]byte, error)

// Backend is the storage boundary used by the repo layer.
// The repo depends on this interface rather than any concrete store, so the
// same collections run on memory, Postgres, Redis or SQLite.
type Backend interface {
	// Get returns the document stored under key.
	// Returns ErrKeyNotFound if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Update atomically replaces the document under key with fn(current).
	Update(ctx context.Context, key string, fn UpdateFunc) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
