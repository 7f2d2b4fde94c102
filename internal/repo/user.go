package repo

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/kv"
)

// UserRepo defines the persistence operations for Users.
type UserRepo interface {
	// Create assigns an id and created_at and appends the user.
	// Returns domain.ErrConflict if another user already has the same email
	// (compared case-insensitively).
	Create(ctx context.Context, user domain.User) (domain.User, error)

	// GetByID returns domain.ErrNotFound if no user has that ID.
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)

	// GetByEmail returns domain.ErrNotFound if no user has that email.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// Delete removes a user. It exists for compensating a failed sign-up
	// and is not exposed by any service.
	Delete(ctx context.Context, id uuid.UUID) error
}

type kvUserRepo struct {
	c    collection[domain.User]
	opts Options
}

// NewUserRepo constructs a UserRepo stored in b.
func NewUserRepo(b kv.Backend, opts Options) UserRepo {
	opts = opts.withDefaults()
	return &kvUserRepo{c: newCollection[domain.User](b, keyUsers, opts.Logger), opts: opts}
}

func (r *kvUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	user.ID = uuid.New()
	user.CreatedAt = r.opts.Now()

	err := r.c.mutate(ctx, func(users []domain.User) ([]domain.User, error) {
		if _, dup := find(users, sameEmail(user.Email)); dup {
			return nil, fmt.Errorf("email %q already registered: %w", user.Email, domain.ErrConflict)
		}
		return append(users, user), nil
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", err)
	}
	return user, nil
}

func (r *kvUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return r.get(ctx, "GetByID", func(u domain.User) bool { return u.ID == id })
}

func (r *kvUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.get(ctx, "GetByEmail", sameEmail(email))
}

func (r *kvUserRepo) get(ctx context.Context, op string, pred func(domain.User) bool) (domain.User, error) {
	users, err := r.c.load(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.%s: %w", op, err)
	}
	u, ok := find(users, pred)
	if !ok {
		return domain.User{}, fmt.Errorf("repo.UserRepo.%s: %w", op, domain.ErrNotFound)
	}
	return u, nil
}

func (r *kvUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.c.mutate(ctx, func(users []domain.User) ([]domain.User, error) {
		i := indexOf(users, func(u domain.User) bool { return u.ID == id })
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		return slices.Delete(users, i, i+1), nil
	})
	if err != nil {
		return fmt.Errorf("repo.UserRepo.Delete: %w", err)
	}
	return nil
}

func sameEmail(email string) func(domain.User) bool {
	return func(u domain.User) bool { return strings.EqualFold(u.Email, email) }
}
