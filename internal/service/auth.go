package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmas-wbpl/sonicwall/internal/digest"
	"github.com/dmas-wbpl/sonicwall/internal/logger"
	"github.com/dmas-wbpl/sonicwall/internal/model"
)

// Auth verifies inbound digest credentials and enforces the session policy:
// administrators only, and at most one admin session active at a time.
type Auth struct {
	userStore    model.UserStore
	sessionStore model.SessionStore
	logger       *logger.Logger
}

func NewAuth(
	userStore model.UserStore,
	sessionStore model.SessionStore,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		sessionStore: sessionStore,
		logger:       logger,
	}
}

// Challenge returns a WWW-Authenticate header value with a fresh nonce.
func (a *Auth) Challenge() string {
	return digest.BuildChallenge()
}

// VerifyCredentials parses the Authorization header and checks the digest
// response against the stored secret. Malformed headers and unknown users
// fail closed with ErrInvalidCredentials.
func (a *Auth) VerifyCredentials(ctx context.Context, authHeader string) (model.User, error) {
	params := digest.ParseHeader(authHeader)
	username := params.Get("username")
	if username == "" {
		return model.User{}, model.ErrInvalidCredentials
	}

	user, err := a.userStore.GetByUsername(ctx, username)
	if errors.Is(err, model.ErrNotFound) {
		a.logger.Info("Auth service: unknown user",
			"username", username)
		return model.User{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	if !digest.Verify(params, user.Username, user.Password) {
		a.logger.Info("Auth service: digest verification failed",
			"username", username)
		return model.User{}, model.ErrInvalidCredentials
	}

	return user, nil
}

// Login verifies credentials, applies the admin and single-session policies
// and creates a new session.
func (a *Auth) Login(ctx context.Context, authHeader string) (model.User, model.Session, error) {
	user, err := a.VerifyCredentials(ctx, authHeader)
	if err != nil {
		return model.User{}, model.Session{}, err
	}

	if !user.IsAdmin {
		a.logger.Info("Auth service: non-admin login rejected",
			"username", user.Username)
		return model.User{}, model.Session{}, model.ErrNotAdmin
	}

	otherActive, err := a.sessionStore.AnotherAdminActive(ctx, user.ID)
	if err != nil {
		return model.User{}, model.Session{}, fmt.Errorf("failed to check active admin sessions: %w", err)
	}
	if otherActive {
		a.logger.Info("Auth service: login rejected, another admin is active",
			"username", user.Username)
		return model.User{}, model.Session{}, model.ErrSessionConflict
	}

	session, err := a.sessionStore.Create(ctx, user.ID)
	if err != nil {
		return model.User{}, model.Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	a.logger.Info("Auth service: login succeeded",
		"username", user.Username,
		"session_id", session.ID)

	return user, session, nil
}

// Logout verifies credentials and deactivates all active sessions of the
// user. Idempotent when no session is active.
func (a *Auth) Logout(ctx context.Context, authHeader string) error {
	user, err := a.VerifyCredentials(ctx, authHeader)
	if err != nil {
		return err
	}

	if err := a.sessionStore.TerminateByUserID(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to terminate sessions: %w", err)
	}

	a.logger.Info("Auth service: logout succeeded",
		"username", user.Username)

	return nil
}

// ValidateSession reports whether the session is active and unexpired.
func (a *Auth) ValidateSession(ctx context.Context, id string) (bool, error) {
	valid, err := a.sessionStore.Validate(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to validate session: %w", err)
	}
	return valid, nil
}
