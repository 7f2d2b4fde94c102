package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/kv"
)

// CredentialRepo stores sign-in records. The service layer is responsible
// for hashing; this repo never sees a plaintext password.
type CredentialRepo interface {
	// Create appends a credential. Returns domain.ErrConflict if the email
	// already has one.
	Create(ctx context.Context, cred domain.Credential) (domain.Credential, error)

	// GetByEmail returns domain.ErrNotFound if no credential has that email.
	GetByEmail(ctx context.Context, email string) (domain.Credential, error)
}

type kvCredentialRepo struct {
	c    collection[domain.Credential]
	opts Options
}

// NewCredentialRepo constructs a CredentialRepo stored in b.
func NewCredentialRepo(b kv.Backend, opts Options) CredentialRepo {
	opts = opts.withDefaults()
	return &kvCredentialRepo{c: newCollection[domain.Credential](b, keyCredentials, opts.Logger), opts: opts}
}

func (r *kvCredentialRepo) Create(ctx context.Context, cred domain.Credential) (domain.Credential, error) {
	cred.CreatedAt = r.opts.Now()

	err := r.c.mutate(ctx, func(creds []domain.Credential) ([]domain.Credential, error) {
		if _, dup := find(creds, credEmail(cred.Email)); dup {
			return nil, domain.ErrConflict
		}
		return append(creds, cred), nil
	})
	if err != nil {
		return domain.Credential{}, fmt.Errorf("repo.CredentialRepo.Create: %w", err)
	}
	return cred, nil
}

func (r *kvCredentialRepo) GetByEmail(ctx context.Context, email string) (domain.Credential, error) {
	creds, err := r.c.load(ctx)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("repo.CredentialRepo.GetByEmail: %w", err)
	}
	cred, ok := find(creds, credEmail(email))
	if !ok {
		return domain.Credential{}, fmt.Errorf("repo.CredentialRepo.GetByEmail: %w", domain.ErrNotFound)
	}
	return cred, nil
}

func credEmail(email string) func(domain.Credential) bool {
	return func(c domain.Credential) bool { return strings.EqualFold(c.Email, email) }
}
