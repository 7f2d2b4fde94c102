package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/kv"
)

// SessionRepo holds the "current user" pointer of a single-user storage
// scope, such as the CLI's local database.
type SessionRepo interface {
	// SetCurrent records user as signed in, replacing any previous user.
	SetCurrent(ctx context.Context, user domain.User) error

	// Current returns the signed-in user. found is false when nobody is
	// signed in or the stored pointer is unreadable.
	Current(ctx context.Context) (user domain.User, found bool, err error)

	// Clear signs the current user out. Clearing an empty pointer is a no-op.
	Clear(ctx context.Context) error
}

type kvSessionRepo struct {
	backend kv.Backend
	logger  *slog.Logger
}

// NewSessionRepo constructs a SessionRepo stored in b.
func NewSessionRepo(b kv.Backend, opts Options) SessionRepo {
	opts = opts.withDefaults()
	return &kvSessionRepo{backend: b, logger: opts.Logger}
}

func (r *kvSessionRepo) SetCurrent(ctx context.Context, user domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("repo.SessionRepo.SetCurrent: %w", err)
	}
	err = r.backend.Update(ctx, keyCurrentUser, func([]byte) ([]byte, error) { return raw, nil })
	if err != nil {
		return fmt.Errorf("repo.SessionRepo.SetCurrent: %w", err)
	}
	return nil
}

func (r *kvSessionRepo) Current(ctx context.Context) (domain.User, bool, error) {
	raw, err := r.backend.Get(ctx, keyCurrentUser)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, fmt.Errorf("repo.SessionRepo.Current: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		r.logger.Warn("corrupt current-user pointer treated as signed out",
			slog.String("key", keyCurrentUser),
			slog.String("error", err.Error()),
		)
		return domain.User{}, false, nil
	}
	return user, true, nil
}

func (r *kvSessionRepo) Clear(ctx context.Context) error {
	if err := r.backend.Delete(ctx, keyCurrentUser); err != nil {
		return fmt.Errorf("repo.SessionRepo.Clear: %w", err)
	}
	return nil
}
