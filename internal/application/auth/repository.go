package auth

import (
	"context"

	"github.com/lista-app/lista/internal/domain"
)

// UserRepository defines storage operations for user accounts.
type UserRepository interface {
	// CreateUser persists a new user.
	// Returns domain.ErrEmailTaken if the email is already registered.
	CreateUser(ctx context.Context, u *domain.User) error

	// FindUserByEmail retrieves a user by email.
	// Returns domain.ErrUserNotFound if no account exists.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserByID retrieves a user by id.
	// Returns domain.ErrUserNotFound if no account exists.
	FindUserByID(ctx context.Context, id string) (*domain.User, error)
}
