package repo_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/wanderly/internal/kv"
	"github.com/pkordes/wanderly/internal/repo"
	"github.com/pkordes/wanderly/testutil"
)

// stepClock returns a Now func that advances one second per call, so every
// stamped record gets a distinct, increasing timestamp.
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := next
		next = next.Add(time.Second)
		return t
	}
}

var epoch = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

// newTestStore returns a Store over a fresh in-memory backend together with
// the backend (for planting raw documents) and a buffer capturing log output.
func newTestStore(t *testing.T) (*repo.Store, *kv.Memory, *bytes.Buffer) {
	t.Helper()
	b := kv.NewMemory()
	var logs bytes.Buffer
	store := repo.NewStore(b, repo.Options{
		Logger: slog.New(slog.NewJSONHandler(&logs, nil)),
		Now:    stepClock(epoch),
	})
	return store, b, &logs
}

// newPostgresStore returns a Store backed by a rolled-back transaction.
// Skips when TEST_DATABASE_URL is not set.
func newPostgresStore(t *testing.T) *repo.Store {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")
	t.Cleanup(func() {
		// Rollback discards all changes made during the test; no cleanup SQL needed.
		_ = tx.Rollback(context.Background())
	})

	return repo.NewStore(kv.NewPostgres(tx), repo.Options{Now: stepClock(epoch)})
}

// plant writes a raw document under key, bypassing the repos.
func plant(t *testing.T, b kv.Backend, key, doc string) {
	t.Helper()
	err := b.Update(context.Background(), key, func([]byte) ([]byte, error) { return []byte(doc), nil })
	require.NoError(t, err)
}
