package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"sportspace-admin/internal/metrics"
	"sportspace-admin/internal/middleware"
	"sportspace-admin/internal/model"
	"sportspace-admin/internal/service"
)

type stubUserFinder struct {
	user model.User
}

func (s *stubUserFinder) FindByID(_ context.Context, id string) (model.User, error) {
	if id != s.user.ID {
		return model.User{}, model.ErrUserNotFound
	}
	return s.user, nil
}

func (s *stubUserFinder) FindByEmail(_ context.Context, email string) (model.User, error) {
	if email != s.user.Email {
		return model.User{}, model.ErrUserNotFound
	}
	return s.user, nil
}

type stubTokenStore struct {
	stored map[string]string
}

func (s *stubTokenStore) Store(_ context.Context, token string, userID string, _ time.Time) error {
	s.stored[token] = userID
	return nil
}

func (s *stubTokenStore) Validate(_ context.Context, token string) (string, error) {
	userID, ok := s.stored[token]
	if !ok {
		return "", model.ErrTokenNotFound
	}
	return userID, nil
}

func (s *stubTokenStore) Revoke(_ context.Context, token string) error {
	delete(s.stored, token)
	return nil
}

func (s *stubTokenStore) RevokeAllForUser(context.Context, string) error { return nil }

func newTestAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &stubUserFinder{user: model.User{
		ID:           "u1",
		Name:         "Ana",
		Email:        "ana@example.com",
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}}

	authService, err := service.NewAuthService("test-secret", 15*time.Minute, 24*time.Hour,
		users, &stubTokenStore{stored: map[string]string{}}, nil)
	require.NoError(t, err)

	return NewAuthHandler(authService, metrics.New())
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success envelope carries user and session", func(t *testing.T) {
		h := newTestAuthHandler(t)

		req := httptest.NewRequest("POST", "/api/v1/auth/login",
			strings.NewReader(`{"email":"ana@example.com","password":"hunter22"}`))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var envelope struct {
			Success bool              `json:"success"`
			Data    model.AuthPayload `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.True(t, envelope.Success)
		assert.Equal(t, "ana@example.com", envelope.Data.User.Email)
		assert.Equal(t, model.RoleAdmin, envelope.Data.User.Role)
		assert.Equal(t, "Bearer", envelope.Data.Session.TokenType)
		assert.NotEmpty(t, envelope.Data.Session.AccessToken)
		assert.NotEmpty(t, envelope.Data.Session.RefreshToken)
	})

	t.Run("bad credentials yield a 401 error envelope", func(t *testing.T) {
		h := newTestAuthHandler(t)

		req := httptest.NewRequest("POST", "/api/v1/auth/login",
			strings.NewReader(`{"email":"ana@example.com","password":"wrong"}`))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var envelope model.APIResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.False(t, envelope.Success)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "INVALID_CREDENTIALS", envelope.Error.Code)
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		h := newTestAuthHandler(t)

		req := httptest.NewRequest("POST", "/api/v1/auth/login", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	h := newTestAuthHandler(t)

	req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	req = req.WithContext(middleware.ContextWithClaims(req.Context(), &model.AuthClaims{UserID: "u1", Role: model.RoleAdmin}))
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Success bool              `json:"success"`
		Data    model.SessionUser `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "u1", envelope.Data.ID)
	assert.Equal(t, "ana@example.com", envelope.Data.Email)
}
