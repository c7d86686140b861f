package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmas-wbpl/sonicwall/internal/model"
	"github.com/dmas-wbpl/sonicwall/internal/testutil"
)

type stubAuthService struct {
	challenge string
	user      model.User
	session   model.Session
	loginErr  error
	logoutErr error

	gotHeader string
}

func (s *stubAuthService) Challenge() string { return s.challenge }

func (s *stubAuthService) Login(ctx context.Context, authHeader string) (model.User, model.Session, error) {
	s.gotHeader = authHeader
	if s.loginErr != nil {
		return model.User{}, model.Session{}, s.loginErr
	}
	return s.user, s.session, nil
}

func (s *stubAuthService) Logout(ctx context.Context, authHeader string) error {
	s.gotHeader = authHeader
	return s.logoutErr
}

func TestAuthHandler_Login_NoCredentials(t *testing.T) {
	svc := &stubAuthService{challenge: `Digest realm="sonicwall_api", nonce="n1", algorithm=SHA-256, qop="auth"`}
	h := NewAuth(svc, testutil.MakeNoopLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/sonicos/auth/", nil)
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, svc.challenge, rec.Header().Get("WWW-Authenticate"))
}

func TestAuthHandler_Login_Success(t *testing.T) {
	svc := &stubAuthService{
		user:    model.User{ID: 7, Username: "admin", IsAdmin: true},
		session: model.Session{ID: "sid-1"},
	}
	h := NewAuth(svc, testutil.MakeNoopLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/sonicos/auth/", nil)
	req.Header.Set("Authorization", `Digest username="admin"`)
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `Digest username="admin"`, svc.gotHeader)

	var body userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.ID)
	assert.Equal(t, "admin", body.Username)
	assert.True(t, body.IsAdmin)
	assert.Equal(t, "sid-1", body.SessionID)
}

func TestAuthHandler_Login_ErrorMapping(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantStatus    int
		wantChallenge bool
	}{
		{name: "invalid credentials", err: model.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized, wantChallenge: true},
		{name: "not admin", err: model.ErrNotAdmin, wantStatus: http.StatusForbidden},
		{name: "session conflict", err: model.ErrSessionConflict, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubAuthService{challenge: "Digest challenge", loginErr: tt.err}
			h := NewAuth(svc, testutil.MakeNoopLogger())

			req := httptest.NewRequest(http.MethodPost, "/api/sonicos/auth/", nil)
			req.Header.Set("Authorization", "Digest bogus")
			rec := httptest.NewRecorder()

			h.Login(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantChallenge {
				assert.Equal(t, "Digest challenge", rec.Header().Get("WWW-Authenticate"))
			} else {
				assert.Empty(t, rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestAuthHandler_Logout_Success(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuth(svc, testutil.MakeNoopLogger())

	req := httptest.NewRequest(http.MethodDelete, "/api/sonicos/auth/", nil)
	req.Header.Set("Authorization", `Digest username="admin"`)
	rec := httptest.NewRecorder()

	h.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body detailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Successfully logged out", body.Detail)
}

func TestAuthHandler_Logout_InvalidCredentials(t *testing.T) {
	svc := &stubAuthService{challenge: "Digest challenge", logoutErr: model.ErrInvalidCredentials}
	h := NewAuth(svc, testutil.MakeNoopLogger())

	req := httptest.NewRequest(http.MethodDelete, "/api/sonicos/auth/", nil)
	rec := httptest.NewRecorder()

	h.Logout(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Digest challenge", rec.Header().Get("WWW-Authenticate"))
}
