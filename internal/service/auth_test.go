package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/repo"
	"github.com/pkordes/wanderly/internal/service"
)

func newAuthService(store *repo.Store) *service.AuthService {
	return service.NewAuthService(store.Users, store.Credentials, store.Session).WithHashCost(bcrypt.MinCost)
}

func TestAuthService_Register(t *testing.T) {
	store := newMemoryStore(t)
	svc := newAuthService(store)

	user, err := svc.Register(context.Background(), "  Ana@Example.com ", "secret1", " Ana ")

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "Ana", user.DisplayName)
	assert.Equal(t, "https://api.dicebear.com/7.x/avataaars/svg?seed=ana%40example.com", user.AvatarURL)

	cred, err := store.Credentials.GetByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", cred.PasswordHash, "password must be hashed")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte("secret1")))
}

func TestAuthService_Register_Validation(t *testing.T) {
	tests := []struct {
		name, email, password, display string
	}{
		{"bad email", "not-an-email", "secret1", "Ana"},
		{"short password", "ana@example.com", "12345", "Ana"},
		{"long password", "ana@example.com", strings.Repeat("x", 73), "Ana"},
		{"multibyte password over 72 bytes", "ana@example.com", strings.Repeat("€", 30), "Ana"},
		{"blank name", "ana@example.com", "secret1", "   "},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newAuthService(newMemoryStore(t))
			_, err := svc.Register(context.Background(), tc.email, tc.password, tc.display)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestAuthService_Register_PasswordLengthCountsBytes(t *testing.T) {
	svc := newAuthService(newMemoryStore(t))
	ctx := context.Background()

	// 24 euro signs are 24 runes and exactly 72 bytes.
	_, err := svc.Register(ctx, "ana@example.com", strings.Repeat("€", 24), "Ana")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "ben@example.com", strings.Repeat("€", 25), "Ben")
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "password must be at most 72 bytes")
}

func TestAuthService_Register_ValidationMessagesUseFieldNames(t *testing.T) {
	svc := newAuthService(newMemoryStore(t))

	_, err := svc.Register(context.Background(), "ana@example.com", "secret1", "")

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "display_name is required")
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc := newAuthService(newMemoryStore(t))
	ctx := context.Background()

	_, err := svc.Register(ctx, "ana@example.com", "secret1", "Ana")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "ANA@example.com", "secret2", "Other Ana")

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAuthService_Register_CompensatesUserWhenCredentialFails(t *testing.T) {
	store := newMemoryStore(t)
	boom := errors.New("disk full")
	svc := service.NewAuthService(store.Users, &mockCredentialRepo{
		create: func(context.Context, domain.Credential) (domain.Credential, error) {
			return domain.Credential{}, boom
		},
	}, store.Session).WithHashCost(bcrypt.MinCost)

	_, err := svc.Register(context.Background(), "ana@example.com", "secret1", "Ana")

	assert.ErrorIs(t, err, boom)
	_, err = store.Users.GetByEmail(context.Background(), "ana@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound, "user must be removed again")
}

func TestAuthService_Authenticate(t *testing.T) {
	svc := newAuthService(newMemoryStore(t))
	ctx := context.Background()
	registered, err := svc.Register(ctx, "ana@example.com", "secret1", "Ana")
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, "ANA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, got.ID)

	_, err = svc.Authenticate(ctx, "ana@example.com", "wrong-pass")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_SessionLifecycle(t *testing.T) {
	svc := newAuthService(newMemoryStore(t))
	ctx := context.Background()

	_, found, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	user, err := svc.SignUp(ctx, "ana@example.com", "secret1", "Ana")
	require.NoError(t, err)
	current, err := svc.RequireCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, user, current)

	require.NoError(t, svc.SignOut(ctx))
	_, found, err = svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.False(t, found)
	_, err = svc.RequireCurrentUser(ctx)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	require.NoError(t, svc.SignOut(ctx), "signing out twice is fine")

	signedIn, err := svc.SignIn(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, signedIn.ID)

	_, err = svc.SignIn(ctx, "ana@example.com", "nope-nope")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	current, err = svc.RequireCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, current.ID, "failed sign-in keeps the previous user")
}

func TestAuthService_GetUser(t *testing.T) {
	svc := newAuthService(newMemoryStore(t))
	ctx := context.Background()
	user, err := svc.Register(ctx, "ana@example.com", "secret1", "Ana")
	require.NoError(t, err)

	got, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user, got)

	_, err = svc.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
