package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushub/identity/internal/domain"
)

// CredentialStore is the single write path for user credentials. Every
// password that reaches the repository has been bcrypt-hashed here: there
// is no pass-through mode, so an accidental plaintext write is impossible.
// Emails are normalized to lower case on every write and lookup.
type CredentialStore struct {
	users      domain.UserRepository
	validate   *validator.Validate
	bcryptCost int
}

// NewCredentialStore creates a CredentialStore over the given repository.
func NewCredentialStore(users domain.UserRepository, bcryptCost int) *CredentialStore {
	return &CredentialStore{
		users:      users,
		validate:   validator.New(),
		bcryptCost: bcryptCost,
	}
}

// NormalizeEmail trims and lowercases an email address. Matching is
// case-insensitive throughout the service.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create validates, hashes, and persists a new user. Uniqueness is
// enforced by the repository's storage-layer constraint, so concurrent
// creates with the same email resolve to exactly one winner.
func (s *CredentialStore) Create(ctx context.Context, email, password string, role domain.Role, name string) (*domain.User, error) {
	email = NormalizeEmail(email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidEmail, email)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, role)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail looks up a user by normalized email.
func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.users.GetByEmail(ctx, NormalizeEmail(email))
}

// FindByID looks up a user by identifier.
func (s *CredentialStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// SetPassword rehashes and overwrites the user's password.
func (s *CredentialStore) SetPassword(ctx context.Context, id, password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}
	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, id, hash)
}

// SetRole overwrites the user's role.
func (s *CredentialStore) SetRole(ctx context.Context, id string, role domain.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidRole, role)
	}
	return s.users.UpdateRole(ctx, id, role)
}

// ChangePassword verifies the current password before setting a new one.
// A wrong current password fails with domain.ErrInvalidCredentials.
func (s *CredentialStore) ChangePassword(ctx context.Context, id, current, next string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return domain.ErrInvalidCredentials
		}
		return fmt.Errorf("compare password: %w", err)
	}
	return s.SetPassword(ctx, id, next)
}

// List returns all users.
func (s *CredentialStore) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// DeleteAll removes every user and returns the number deleted.
// Destructive; used only by the full-reseed flow.
func (s *CredentialStore) DeleteAll(ctx context.Context) (int64, error) {
	return s.users.DeleteAll(ctx)
}

func (s *CredentialStore) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
