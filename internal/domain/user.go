package domain

import "time"

// User is the aggregate root for an account. PasswordHash is a bcrypt hash;
// the plaintext never leaves the auth service.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
}
