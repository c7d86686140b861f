package handler

import (
	"context"
	"net/http"

	"github.com/dmas-wbpl/sonicwall/internal/logger"
	"github.com/dmas-wbpl/sonicwall/internal/model"
)

// AuthService defines admin login and logout operations.
type AuthService interface {
	Challenge() string
	Login(ctx context.Context, authHeader string) (model.User, model.Session, error)
	Logout(ctx context.Context, authHeader string) error
}

// userResponse is the login response body.
type userResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	IsAdmin   bool   `json:"is_admin"`
	SessionID string `json:"session_id"`
}

// Auth handles the digest login and logout endpoints.
type Auth struct {
	authService AuthService
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		logger:      logger,
	}
}

// Login authenticates an admin with HTTP Digest credentials and opens the
// exclusive session. A request without credentials receives a fresh
// challenge.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		w.Header().Set("WWW-Authenticate", h.authService.Challenge())
		writeJSON(w, http.StatusUnauthorized, detailResponse{Detail: "authentication required"})
		return
	}

	user, session, err := h.authService.Login(r.Context(), authHeader)
	if err != nil {
		h.logger.Info("Auth handler: login failed",
			"error", err.Error())
		writeError(w, h.authService.Challenge(), err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{
		ID:        user.ID,
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
		SessionID: session.ID,
	})
}

// Logout terminates the caller's session.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), r.Header.Get("Authorization")); err != nil {
		h.logger.Info("Auth handler: logout failed",
			"error", err.Error())
		writeError(w, h.authService.Challenge(), err)
		return
	}

	writeJSON(w, http.StatusOK, detailResponse{Detail: "Successfully logged out"})
}
