package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/campushub/identity/internal/domain"
)

// SeedAccount is one record in a seed list. Seed lists are deployment
// configuration, supplied to the tool rather than compiled in.
type SeedAccount struct {
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required"`
	Role     domain.Role `json:"role" validate:"required"`
	Name     string      `json:"name,omitempty"`
}

// SeedOutcome classifies what happened to a single seed record.
type SeedOutcome string

const (
	SeedCreated SeedOutcome = "created"
	SeedSkipped SeedOutcome = "skipped"
	SeedFailed  SeedOutcome = "failed"
)

// SeedResult reports the outcome for one seed record.
type SeedResult struct {
	Email   string
	Outcome SeedOutcome
	Err     error
}

// SeedReport aggregates the outcome of a seeding run. When a run aborts,
// Results still lists every record processed so the partial state is
// visible to the operator.
type SeedReport struct {
	Deleted int64
	Created int
	Skipped int
	Results []SeedResult
}

// Seeder brings the credential store to a known baseline set of accounts.
type Seeder struct {
	store    *CredentialStore
	validate *validator.Validate
}

// NewSeeder creates a Seeder over the given credential store.
func NewSeeder(store *CredentialStore) *Seeder {
	return &Seeder{store: store, validate: validator.New()}
}

// Reseed clears the store and then applies the seed list. Running it
// against a populated store discards every existing account, including
// ones unrelated to the seed list.
func (s *Seeder) Reseed(ctx context.Context, accounts []SeedAccount) (*SeedReport, error) {
	deleted, err := s.store.DeleteAll(ctx)
	if err != nil {
		return &SeedReport{}, fmt.Errorf("clear store: %w", err)
	}
	report, err := s.apply(ctx, accounts)
	report.Deleted = deleted
	return report, err
}

// EnsureSeeded applies the seed list without touching existing accounts:
// records whose email already exists are skipped, missing ones created.
func (s *Seeder) EnsureSeeded(ctx context.Context, accounts []SeedAccount) (*SeedReport, error) {
	return s.apply(ctx, accounts)
}

// apply creates each account in order. A duplicate email is tolerated and
// recorded as skipped; any other failure aborts the remaining batch and is
// surfaced, since a partially applied baseline must not pass silently.
func (s *Seeder) apply(ctx context.Context, accounts []SeedAccount) (*SeedReport, error) {
	report := &SeedReport{}
	for _, acc := range accounts {
		if err := s.validate.Struct(acc); err != nil {
			err = fmt.Errorf("%w: seed record %q: %v", domain.ErrInvalidInput, acc.Email, err)
			report.Results = append(report.Results, SeedResult{Email: acc.Email, Outcome: SeedFailed, Err: err})
			return report, err
		}

		_, err := s.store.Create(ctx, acc.Email, acc.Password, acc.Role, acc.Name)
		switch {
		case err == nil:
			report.Created++
			report.Results = append(report.Results, SeedResult{Email: acc.Email, Outcome: SeedCreated})
		case errors.Is(err, domain.ErrDuplicateEmail):
			report.Skipped++
			report.Results = append(report.Results, SeedResult{Email: acc.Email, Outcome: SeedSkipped, Err: err})
		default:
			report.Results = append(report.Results, SeedResult{Email: acc.Email, Outcome: SeedFailed, Err: err})
			return report, fmt.Errorf("seed %q: %w", acc.Email, err)
		}
	}
	return report, nil
}
