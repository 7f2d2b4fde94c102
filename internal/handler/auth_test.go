package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/handler"
)

var tokenExpiry = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

func fixedIssuer() *mockTokenIssuer {
	return &mockTokenIssuer{issue: func(userID uuid.UUID, _ string) (string, time.Time, error) {
		return "tok-" + userID.String(), tokenExpiry, nil
	}}
}

func TestSignUp_Created(t *testing.T) {
	user := domain.User{ID: uuid.New(), Email: "ana@example.com", DisplayName: "Ana"}
	var gotEmail, gotName string
	h := newHTTPHandler(handler.Deps{
		Auth: &mockAuthServicer{register: func(_ context.Context, email, _, name string) (domain.User, error) {
			gotEmail, gotName = email, name
			return user, nil
		}},
		Tokens: fixedIssuer(),
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/sign-up", jsonBody(t, map[string]string{
		"email": "ana@example.com", "password": "s3cret!", "display_name": "Ana",
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "ana@example.com", gotEmail)
	assert.Equal(t, "Ana", gotName)
	var body struct {
		User      domain.User `json:"user"`
		Token     string      `json:"token"`
		ExpiresAt time.Time   `json:"expires_at"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, user.ID, body.User.ID)
	assert.Equal(t, "tok-"+user.ID.String(), body.Token)
	assert.True(t, tokenExpiry.Equal(body.ExpiresAt))
}

func TestSignUp_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     map[string]string
		register func(context.Context, string, string, string) (domain.User, error)
		status   int
		code     string
		message  string
	}{
		{
			name:    "invalid email",
			body:    map[string]string{"email": "nope", "password": "s3cret!", "display_name": "Ana"},
			status:  http.StatusUnprocessableEntity,
			code:    "validation_error",
			message: "email must be a valid email address",
		},
		{
			name:    "short password",
			body:    map[string]string{"email": "ana@example.com", "password": "abc", "display_name": "Ana"},
			status:  http.StatusUnprocessableEntity,
			code:    "validation_error",
			message: "password must be at least 6",
		},
		{
			name: "duplicate email",
			body: map[string]string{"email": "ana@example.com", "password": "s3cret!", "display_name": "Ana"},
			register: func(context.Context, string, string, string) (domain.User, error) {
				return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", domain.ErrConflict)
			},
			status:  http.StatusConflict,
			code:    "conflict",
			message: "account already exists",
		},
		{
			name: "storage failure",
			body: map[string]string{"email": "ana@example.com", "password": "s3cret!", "display_name": "Ana"},
			register: func(context.Context, string, string, string) (domain.User, error) {
				return domain.User{}, errors.New("disk full")
			},
			status:  http.StatusInternalServerError,
			code:    "internal_error",
			message: "internal server error",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHTTPHandler(handler.Deps{
				Auth:   &mockAuthServicer{register: tc.register},
				Tokens: fixedIssuer(),
			})
			req := httptest.NewRequest(http.MethodPost, "/auth/sign-up", jsonBody(t, tc.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tc.status, rec.Code)
			e := errorBody(t, rec)
			assert.Equal(t, tc.code, e.Code)
			assert.Equal(t, tc.message, e.Message)
		})
	}
}

func TestSignIn(t *testing.T) {
	user := domain.User{ID: uuid.New(), Email: "ana@example.com"}
	h := newHTTPHandler(handler.Deps{
		Auth: &mockAuthServicer{authenticate: func(_ context.Context, email, password string) (domain.User, error) {
			if email == "ana@example.com" && password == "s3cret!" {
				return user, nil
			}
			return domain.User{}, fmt.Errorf("service.AuthService.Authenticate: %w", domain.ErrInvalidCredentials)
		}},
		Tokens: fixedIssuer(),
	})

	t.Run("valid credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/sign-in", jsonBody(t, map[string]string{
			"email": "ana@example.com", "password": "s3cret!",
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "tok-"+user.ID.String())
	})

	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/sign-in", jsonBody(t, map[string]string{
			"email": "ana@example.com", "password": "guess",
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid email or password", errorBody(t, rec).Message)
	})

	t.Run("unknown field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/sign-in", jsonBody(t, map[string]string{
			"email": "ana@example.com", "password": "s3cret!", "remember": "yes",
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestGetMe(t *testing.T) {
	t.Run("returns caller", func(t *testing.T) {
		h := newHTTPHandler(handler.Deps{
			Auth: &mockAuthServicer{getUser: func(_ context.Context, id uuid.UUID) (domain.User, error) {
				return domain.User{ID: id, Email: "ana@example.com"}, nil
			}},
		})
		rec := do(h, http.MethodGet, "/me", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var got domain.User
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, caller, got.ID)
	})

	t.Run("deleted account", func(t *testing.T) {
		h := newHTTPHandler(handler.Deps{
			Auth: &mockAuthServicer{getUser: func(context.Context, uuid.UUID) (domain.User, error) {
				return domain.User{}, domain.ErrNotFound
			}},
		})
		rec := do(h, http.MethodGet, "/me", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
