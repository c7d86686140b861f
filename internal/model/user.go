package model

import (
	"context"
	"time"
)

// UserStore defines persistence operations for users. Users are provisioned
// out-of-band and read-only to the authentication core; Create exists for
// seeding and tests.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (User, error)
	Create(ctx context.Context, user User) (User, error)
}

// User represents a stored administrative user. Password holds the
// plaintext-equivalent secret: digest verification has to recompute
// HA1 = hash(username:realm:password), so a one-way hash cannot be stored.
type User struct {
	ID        int64
	Username  string
	Password  string
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}
