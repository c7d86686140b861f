package model

import (
	"context"
	"time"
)

// SessionDuration is the lifetime of an admin session.
const SessionDuration = time.Hour

// SessionStore persists admin sessions.
type SessionStore interface {
	// Create deactivates every active session of the user and inserts a new
	// one within a single transaction.
	Create(ctx context.Context, userID int64) (Session, error)
	// TerminateByUserID deactivates all active sessions of the user.
	// No-op when none are active.
	TerminateByUserID(ctx context.Context, userID int64) error
	// AnotherAdminActive reports whether any admin other than the given user
	// holds an active, unexpired session.
	AnotherAdminActive(ctx context.Context, excludingUserID int64) (bool, error)
	// Validate reports whether the session exists, is active and unexpired.
	Validate(ctx context.Context, id string) (bool, error)
}

// Session describes an admin session. At most one session per user is active
// at any time. Expiry is evaluated lazily at read time; expired rows stay in
// storage until overwritten.
type Session struct {
	ID           string
	UserID       int64
	IsActive     bool
	CreatedAt    time.Time
	ExpiresAt    time.Time
	LastActivity time.Time
}
