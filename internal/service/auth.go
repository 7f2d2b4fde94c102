package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/repo"
)

const (
	// maxPasswordBytes is bcrypt's input limit.
	maxPasswordBytes = 72
	avatarBaseURL    = "https://api.dicebear.com/7.x/avataaars/svg?seed="
)

// AuthService registers accounts, checks passwords and tracks the
// current-user pointer of a local store.
type AuthService struct {
	users   repo.UserRepo
	creds   repo.CredentialRepo
	session repo.SessionRepo
	cost    int
}

// NewAuthService constructs an AuthService. session may be nil for callers
// that never use SignUp/SignIn/SignOut/CurrentUser, such as the HTTP API.
func NewAuthService(users repo.UserRepo, creds repo.CredentialRepo, session repo.SessionRepo) *AuthService {
	return &AuthService{users: users, creds: creds, session: session, cost: bcrypt.DefaultCost}
}

// WithHashCost returns a copy of s that hashes passwords at cost.
// Tests use bcrypt.MinCost to stay fast.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	cp := *s
	cp.cost = cost
	return &cp
}

type registration struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"display_name" validate:"required,max=100"`
}

// Register creates a user and its credential.
// Returns domain.ErrValidation for a malformed email, a password shorter than
// six characters or longer than 72 bytes, or a missing display name, and
// domain.ErrConflict when the email is taken. If the credential cannot be
// stored the user is removed again.
func (s *AuthService) Register(ctx context.Context, email, password, displayName string) (domain.User, error) {
	reg := registration{
		Email:       normalizeEmail(email),
		Password:    password,
		DisplayName: strings.TrimSpace(displayName),
	}
	if err := validate.Struct(reg); err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", ValidationError(err))
	}
	if len(reg.Password) > maxPasswordBytes {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w",
			invalid("password must be at most %d bytes", maxPasswordBytes))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.cost)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: hash password: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		Email:       reg.Email,
		DisplayName: reg.DisplayName,
		AvatarURL:   avatarBaseURL + url.QueryEscape(reg.Email),
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}

	_, err = s.creds.Create(ctx, domain.Credential{
		UserID:       user.ID,
		Email:        reg.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
			err = errors.Join(err, fmt.Errorf("compensating user delete: %w", delErr))
		}
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}
	return user, nil
}

// Authenticate checks email and password.
// Returns domain.ErrInvalidCredentials when the email is unknown or the
// password does not match.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	cred, err := s.creds.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("service.AuthService.Authenticate: %w", domain.ErrInvalidCredentials)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Authenticate: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Authenticate: %w", domain.ErrInvalidCredentials)
	}

	user, err := s.users.GetByID(ctx, cred.UserID)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Authenticate: %w", err)
	}
	return user, nil
}

// SignUp registers a user and makes them the current user.
func (s *AuthService) SignUp(ctx context.Context, email, password, displayName string) (domain.User, error) {
	user, err := s.Register(ctx, email, password, displayName)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.session.SetCurrent(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.SignUp: %w", err)
	}
	return user, nil
}

// SignIn authenticates a user and makes them the current user.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.session.SetCurrent(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.SignIn: %w", err)
	}
	return user, nil
}

// SignOut clears the current user. Signing out twice is not an error.
func (s *AuthService) SignOut(ctx context.Context) error {
	if err := s.session.Clear(ctx); err != nil {
		return fmt.Errorf("service.AuthService.SignOut: %w", err)
	}
	return nil
}

// CurrentUser returns the signed-in user; found is false when nobody is.
func (s *AuthService) CurrentUser(ctx context.Context) (domain.User, bool, error) {
	user, found, err := s.session.Current(ctx)
	if err != nil {
		return domain.User{}, false, fmt.Errorf("service.AuthService.CurrentUser: %w", err)
	}
	return user, found, nil
}

// RequireCurrentUser is CurrentUser with domain.ErrUnauthenticated in
// place of found=false.
func (s *AuthService) RequireCurrentUser(ctx context.Context) (domain.User, error) {
	user, found, err := s.CurrentUser(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if !found {
		return domain.User{}, domain.ErrUnauthenticated
	}
	return user, nil
}

// GetUser returns a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.GetUser: %w", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
