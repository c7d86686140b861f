package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmas-wbpl/sonicwall/internal/model"
)

// Ensure SessionRepository implements the model.SessionStore interface.
var _ model.SessionStore = (*SessionRepository)(nil)

type SessionRepository struct {
	db *Connection
}

func NewSessionRepository(db *Connection) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create deactivates every active session of the user and inserts the new
// one in a single transaction, so two concurrent logins cannot both end up
// active.
func (r *SessionRepository) Create(ctx context.Context, userID int64) (model.Session, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	const deactivate = `
        UPDATE sessions
        SET is_active = FALSE
        WHERE user_id = $1 AND is_active
    `
	if _, err := tx.Exec(ctx, deactivate, userID); err != nil {
		return model.Session{}, fmt.Errorf("failed to deactivate sessions: %w", err)
	}

	const insert = `
        INSERT INTO sessions (id, user_id, is_active, created_at, expires_at, last_activity)
        VALUES ($1, $2, TRUE, $3, $4, $3)
        RETURNING id, user_id, is_active, created_at, expires_at, last_activity
    `
	now := time.Now()

	var session model.Session
	if err := tx.QueryRow(ctx, insert,
		uuid.NewString(), userID, now, now.Add(model.SessionDuration),
	).Scan(
		&session.ID,
		&session.UserID,
		&session.IsActive,
		&session.CreatedAt,
		&session.ExpiresAt,
		&session.LastActivity,
	); err != nil {
		return model.Session{}, fmt.Errorf("failed to insert session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Session{}, fmt.Errorf("failed to commit session creation: %w", err)
	}
	return session, nil
}

func (r *SessionRepository) TerminateByUserID(ctx context.Context, userID int64) error {
	const query = `
        UPDATE sessions
        SET is_active = FALSE
        WHERE user_id = $1 AND is_active
    `
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to terminate sessions: %w", err)
	}
	return nil
}

func (r *SessionRepository) AnotherAdminActive(ctx context.Context, excludingUserID int64) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1
            FROM sessions s
            JOIN users u ON u.id = s.user_id
            WHERE u.is_admin
              AND u.id <> $1
              AND s.is_active
              AND s.expires_at > now()
        )
    `
	var active bool
	if err := r.db.QueryRow(ctx, query, excludingUserID).Scan(&active); err != nil {
		return false, fmt.Errorf("failed to check active admin sessions: %w", err)
	}
	return active, nil
}

func (r *SessionRepository) Validate(ctx context.Context, id string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1
            FROM sessions
            WHERE id = $1 AND is_active AND expires_at > now()
        )
    `
	var valid bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&valid); err != nil {
		return false, fmt.Errorf("failed to validate session: %w", err)
	}
	return valid, nil
}

// GetByID returns the session row regardless of its active or expiry state.
func (r *SessionRepository) GetByID(ctx context.Context, id string) (model.Session, error) {
	const query = `
        SELECT id, user_id, is_active, created_at, expires_at, last_activity
        FROM sessions
        WHERE id = $1
    `
	var session model.Session
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.UserID,
		&session.IsActive,
		&session.CreatedAt,
		&session.ExpiresAt,
		&session.LastActivity,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to get session by id: %w", err)
	}
	return session, nil
}
