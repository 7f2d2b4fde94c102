package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/wanderly/internal/middleware"
)

func requestAs(id uuid.UUID) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/trips/plan", nil)
	return req.WithContext(middleware.WithUserID(req.Context(), id))
}

func TestRateLimiter_PerUserBudget(t *testing.T) {
	var logs bytes.Buffer
	rl := middleware.NewRateLimiter(2, slog.New(slog.NewJSONHandler(&logs, nil)))
	h := rl.Middleware()(okHandler)
	alice, bob := uuid.New(), uuid.New()

	for range 2 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestAs(alice))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestAs(alice))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "30", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), `"code":"rate_limited"`)
	assert.Contains(t, logs.String(), alice.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, requestAs(bob))
	assert.Equal(t, http.StatusOK, rec.Code, "other users have their own bucket")
	assert.Equal(t, 2, rl.Len())
}

func TestRateLimiter_RequiresUser(t *testing.T) {
	h := middleware.NewRateLimiter(10, nil).Middleware()(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/trips/plan", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimiter_DisabledWhenZero(t *testing.T) {
	h := middleware.NewRateLimiter(0, nil).Middleware()(okHandler)
	alice := uuid.New()

	for range 50 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestAs(alice))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimiter_Sweep(t *testing.T) {
	rl := middleware.NewRateLimiter(5, nil)
	h := rl.Middleware()(okHandler)
	h.ServeHTTP(httptest.NewRecorder(), requestAs(uuid.New()))
	require.Equal(t, 1, rl.Len())

	assert.Equal(t, 0, rl.Sweep(time.Hour), "recently used users are kept")
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 1, rl.Sweep(time.Millisecond))
	assert.Equal(t, 0, rl.Len())
}
