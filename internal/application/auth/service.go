package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/lista-app/lista/internal/clock"
	"github.com/lista-app/lista/internal/domain"
	"github.com/lista-app/lista/internal/idgen"
)

// DefaultTokenTTL is applied when the configured TTL is zero or negative.
const DefaultTokenTTL = 24 * time.Hour

const minPasswordLen = 8

// Registration validation errors.
var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrWeakPassword = errors.New("password must be at least 8 characters")
)

// Config holds configuration for the auth service.
type Config struct {
	SigningKey string        // HMAC key for session tokens
	TokenTTL   time.Duration // session token lifetime
	Issuer     string        // token issuer claim
}

// Service handles registration, login, and bearer-token validation.
// The clock is injected so token lifetimes are deterministic under test.
type Service struct {
	repo       UserRepository
	ids        idgen.Generator
	clock      clock.Clock
	signingKey []byte
	tokenTTL   time.Duration
	issuer     string
}

// claims is the JWT payload for a session token.
type claims struct {
	jwt.RegisteredClaims
}

// NewService creates a new auth service. Applies the default TTL for zero or
// negative config values.
func NewService(repo UserRepository, ids idgen.Generator, clk clock.Clock, cfg Config) *Service {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "lista"
	}
	return &Service{
		repo:       repo,
		ids:        ids,
		clock:      clk,
		signingKey: []byte(cfg.SigningKey),
		tokenTTL:   cfg.TokenTTL,
		issuer:     cfg.Issuer,
	}
}

// UserProfile is the public projection of an account.
type UserProfile struct {
	ID    string
	Email string
	Name  string
}

// Session is an issued bearer token.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      UserProfile
}

// Register creates a new account. The password is stored as a bcrypt hash;
// the plaintext is never persisted.
func (s *Service) Register(ctx context.Context, email, password, name string) (*UserProfile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := s.ids.NewID()
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		ID:           id,
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(name),
		CreatedAt:    s.clock.Now(),
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	return &UserProfile{ID: u.ID, Email: u.Email, Name: u.Name}, nil
}

// Login verifies credentials and issues a session token.
// Invalid email and invalid password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrUnauthorized
	}

	now := s.clock.Now()
	expiresAt := now.Add(s.tokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Session{
		Token:     signed,
		ExpiresAt: expiresAt,
		User:      UserProfile{ID: u.ID, Email: u.Email, Name: u.Name},
	}, nil
}

// Authenticate validates a bearer token and returns the user id it names.
// Returns domain.ErrUnauthorized for any invalid, expired, or tampered token.
func (s *Service) Authenticate(_ context.Context, tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil || !parsed.Valid {
		return "", domain.ErrUnauthorized
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || c.Subject == "" {
		return "", domain.ErrUnauthorized
	}
	return c.Subject, nil
}

// Me returns the profile for a user id.
func (s *Service) Me(ctx context.Context, userID string) (*UserProfile, error) {
	u, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserProfile{ID: u.ID, Email: u.Email, Name: u.Name}, nil
}
