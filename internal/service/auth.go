package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushub/identity/internal/domain"
)

const tokenIssuer = "campushub-identity"

// Claims is the JWT payload for a session token. Subject carries the
// user ID; Role gates authorization on protected routes.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenClaims is the verified identity extracted from a session token.
type TokenClaims struct {
	UserID string
	Role   domain.Role
}

// AuthService handles login, session token issuance and verification, and
// role-based authorization.
type AuthService struct {
	store     *CredentialStore
	jwtSecret []byte
	tokenTTL  time.Duration
	dummyHash []byte
}

// NewAuthService creates a new AuthService. tokenTTL is the fixed lifetime
// of every issued token.
func NewAuthService(store *CredentialStore, jwtSecret string, tokenTTL time.Duration) *AuthService {
	// Hash a throwaway value at the same cost as real credentials; the
	// unknown-email login path compares against it so its duration
	// matches a wrong-password compare.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("login-timing-equalizer"), store.bcryptCost)

	return &AuthService{
		store:     store,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		dummyHash: dummy,
	}
}

// Store exposes the underlying credential store.
func (s *AuthService) Store() *CredentialStore {
	return s.store
}

// Login verifies credentials and returns a signed session token plus the
// authenticated user. Unknown email and wrong password both fail with
// domain.ErrInvalidCredentials; the unknown-email path still performs a
// bcrypt comparison so the two are not distinguishable by timing.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// Register creates a self-service account. Self-registration always
// produces a student; any other role is assigned administratively.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidInput)
	}
	return s.store.Create(ctx, email, password, domain.RoleStudent, name)
}

// VerifyToken validates a session token and returns its claims. It is a
// pure function of the token and the signing secret: no store lookup, so a
// deleted user's unexpired token still verifies until the TTL bounds it.
func (s *AuthService) VerifyToken(tokenString string) (TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return TokenClaims{}, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return TokenClaims{}, domain.ErrTokenSignature
		default:
			return TokenClaims{}, domain.ErrTokenMalformed
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return TokenClaims{}, domain.ErrTokenMalformed
	}

	role := domain.Role(claims.Role)
	if claims.Subject == "" || !role.Valid() {
		return TokenClaims{}, domain.ErrTokenMalformed
	}

	return TokenClaims{UserID: claims.Subject, Role: role}, nil
}

// Authorize checks role membership against the allowed set for an
// operation. There is no role hierarchy: a role is permitted only if it is
// listed explicitly.
func (s *AuthService) Authorize(role domain.Role, allowed ...domain.Role) error {
	for _, a := range allowed {
		if role == a {
			return nil
		}
	}
	return domain.ErrForbidden
}

func (s *AuthService) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
