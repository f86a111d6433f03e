package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportspace-admin/internal/model"
)

type stubValidator struct {
	claims *model.AuthClaims
	err    error
}

func (v *stubValidator) ValidateToken(string, string) (*model.AuthClaims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestRequireAuth(t *testing.T) {
	t.Run("missing header", func(t *testing.T) {
		mw := NewAuthMiddleware(&stubValidator{})
		next, called := okHandler()

		rec := httptest.NewRecorder()
		mw.RequireAuth(next).ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/spaces", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, *called)
	})

	t.Run("invalid token", func(t *testing.T) {
		mw := NewAuthMiddleware(&stubValidator{err: model.ErrUnauthorized})
		next, called := okHandler()

		req := httptest.NewRequest("GET", "/api/v1/spaces", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		rec := httptest.NewRecorder()
		mw.RequireAuth(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, *called)
	})

	t.Run("valid token lands claims in context", func(t *testing.T) {
		claims := &model.AuthClaims{UserID: "u1", Role: model.RoleAdmin}
		mw := NewAuthMiddleware(&stubValidator{claims: claims})

		var gotClaims *model.AuthClaims
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotClaims, _ = ClaimsFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/api/v1/spaces", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()
		mw.RequireAuth(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, gotClaims)
		assert.Equal(t, "u1", gotClaims.UserID)
	})
}

func TestRequireRoles(t *testing.T) {
	mw := NewAuthMiddleware(&stubValidator{})

	t.Run("role in allow-list passes", func(t *testing.T) {
		next, called := okHandler()
		handler := mw.RequireRoles(model.RoleAdmin, model.RoleTrainer)(next)

		req := httptest.NewRequest("GET", "/api/v1/users", nil)
		req = req.WithContext(ContextWithClaims(req.Context(), &model.AuthClaims{UserID: "u1", Role: model.RoleTrainer}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, *called)
	})

	t.Run("role outside allow-list is forbidden", func(t *testing.T) {
		next, called := okHandler()
		handler := mw.RequireRoles(model.RoleAdmin)(next)

		req := httptest.NewRequest("GET", "/api/v1/users", nil)
		req = req.WithContext(ContextWithClaims(req.Context(), &model.AuthClaims{UserID: "u1", Role: model.RoleStudent}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, *called)
	})

	t.Run("no claims is unauthorized", func(t *testing.T) {
		next, called := okHandler()
		handler := mw.RequireRoles(model.RoleAdmin)(next)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/users", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, *called)
	})
}
