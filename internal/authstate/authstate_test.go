package authstate

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportspace-admin/internal/model"
)

func signedToken(t *testing.T, role string, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "u1",
		"name":  "Ana",
		"email": "ana@example.com",
		"role":  role,
		"exp":   expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestTokenStore_RoundTrip(t *testing.T) {
	tokens := NewTokenStore(NewMemStore())

	require.NoError(t, tokens.SaveTokens("access-a", "refresh-b"))
	assert.Equal(t, "access-a", tokens.AccessToken())
	assert.Equal(t, "refresh-b", tokens.RefreshToken())

	require.NoError(t, tokens.ClearTokens())
	assert.Empty(t, tokens.AccessToken())
	assert.Empty(t, tokens.RefreshToken())
}

func TestTokenStore_IsTokenExpired(t *testing.T) {
	t.Run("no token is expired", func(t *testing.T) {
		tokens := NewTokenStore(NewMemStore())
		assert.True(t, tokens.IsTokenExpired())
	})

	t.Run("malformed token is expired", func(t *testing.T) {
		tokens := NewTokenStore(NewMemStore())
		require.NoError(t, tokens.SaveTokens("not-a-jwt", ""))
		assert.True(t, tokens.IsTokenExpired())
		assert.Nil(t, tokens.DecodeToken())
	})

	t.Run("past expiry is expired", func(t *testing.T) {
		tokens := NewTokenStore(NewMemStore())
		require.NoError(t, tokens.SaveTokens(signedToken(t, "admin", time.Now().Add(-time.Hour)), ""))
		assert.True(t, tokens.IsTokenExpired())
	})

	t.Run("future expiry is live", func(t *testing.T) {
		tokens := NewTokenStore(NewMemStore())
		require.NoError(t, tokens.SaveTokens(signedToken(t, "admin", time.Now().Add(time.Hour)), ""))
		assert.False(t, tokens.IsTokenExpired())
	})
}

func TestTokenStore_DecodeToken(t *testing.T) {
	tokens := NewTokenStore(NewMemStore())
	require.NoError(t, tokens.SaveTokens(signedToken(t, "trainer", time.Now().Add(time.Hour)), ""))

	claims := tokens.DecodeToken()
	require.NotNil(t, claims)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, model.RoleTrainer, claims.Role)
}

func TestSessionState_AuthenticatedIffUser(t *testing.T) {
	store := NewMemStore()
	tokens := NewTokenStore(store)
	session := NewSessionState(store, tokens)

	assert.False(t, session.IsAuthenticated())
	assert.Nil(t, session.CurrentUser())

	session.SetUser(model.SessionUser{ID: "u1", Email: "ana@example.com", Role: model.RoleAdmin})
	assert.True(t, session.IsAuthenticated())
	assert.NotNil(t, session.CurrentUser())
}

func TestSessionState_ClearUserIdempotent(t *testing.T) {
	store := NewMemStore()
	session := NewSessionState(store, NewTokenStore(store))

	session.SetUser(model.SessionUser{ID: "u1", Role: model.RoleAdmin})
	session.ClearUser()
	session.ClearUser()
	assert.False(t, session.IsAuthenticated())
}

func TestSessionState_ReconcileFromClaims(t *testing.T) {
	t.Run("no token clears stale session", func(t *testing.T) {
		store := NewMemStore()
		tokens := NewTokenStore(store)
		session := NewSessionState(store, tokens)

		session.SetUser(model.SessionUser{ID: "u1", Role: model.RoleAdmin})
		session.Reconcile()
		assert.False(t, session.IsAuthenticated())
	})

	t.Run("valid token without cache derives user from claims", func(t *testing.T) {
		store := NewMemStore()
		tokens := NewTokenStore(store)
		require.NoError(t, tokens.SaveTokens(signedToken(t, "admin", time.Now().Add(time.Hour)), "r"))

		session := NewSessionState(store, tokens)
		session.Initialize()

		user := session.CurrentUser()
		require.NotNil(t, user)
		assert.Equal(t, "u1", user.ID)
		assert.Equal(t, model.RoleAdmin, user.Role)
	})

	t.Run("corrupt cached user is purged and rederived", func(t *testing.T) {
		store := NewMemStore()
		tokens := NewTokenStore(store)
		require.NoError(t, tokens.SaveTokens(signedToken(t, "trainer", time.Now().Add(time.Hour)), "r"))
		require.NoError(t, store.Set(KeyUserData, "{not json"))

		session := NewSessionState(store, tokens)
		session.Initialize()

		user := session.CurrentUser()
		require.NotNil(t, user)
		assert.Equal(t, model.RoleTrainer, user.Role)
	})

	t.Run("cached user wins over claims", func(t *testing.T) {
		store := NewMemStore()
		tokens := NewTokenStore(store)
		require.NoError(t, tokens.SaveTokens(signedToken(t, "student", time.Now().Add(time.Hour)), "r"))
		require.NoError(t, store.Set(KeyUserData, `{"id":"u1","name":"Cached","email":"ana@example.com","role":"admin"}`))

		session := NewSessionState(store, tokens)
		session.Initialize()

		user := session.CurrentUser()
		require.NotNil(t, user)
		assert.Equal(t, "Cached", user.Name)
		assert.Equal(t, model.RoleAdmin, user.Role)
	})
}

func TestSessionState_Observers(t *testing.T) {
	store := NewMemStore()
	session := NewSessionState(store, NewTokenStore(store))

	var seen []*model.SessionUser
	unsubscribe := session.Subscribe(func(user *model.SessionUser) {
		seen = append(seen, user)
	})

	session.SetUser(model.SessionUser{ID: "u1", Role: model.RoleAdmin})
	session.ClearUser()
	require.Len(t, seen, 2)
	assert.NotNil(t, seen[0])
	assert.Nil(t, seen[1])

	unsubscribe()
	session.SetUser(model.SessionUser{ID: "u2", Role: model.RoleStudent})
	assert.Len(t, seen, 2)
}

func TestGuards(t *testing.T) {
	setup := func(t *testing.T) (*TokenStore, *SessionState, *Guards) {
		store := NewMemStore()
		tokens := NewTokenStore(store)
		session := NewSessionState(store, tokens)
		return tokens, session, NewGuards(tokens, session)
	}

	t.Run("guest allows anonymous", func(t *testing.T) {
		_, _, guards := setup(t)
		assert.True(t, guards.Guest().Allowed)
	})

	t.Run("guest redirects active session to dashboard", func(t *testing.T) {
		tokens, session, guards := setup(t)
		require.NoError(t, tokens.SaveTokens(signedToken(t, "admin", time.Now().Add(time.Hour)), "r"))
		session.Reconcile()

		decision := guards.Guest()
		assert.False(t, decision.Allowed)
		assert.Equal(t, RouteDashboard, decision.RedirectTo)
	})

	t.Run("authenticated denies expired token and clears session", func(t *testing.T) {
		tokens, session, guards := setup(t)
		require.NoError(t, tokens.SaveTokens(signedToken(t, "admin", time.Now().Add(-time.Hour)), "r"))
		session.SetUser(model.SessionUser{ID: "u1", Role: model.RoleAdmin})

		decision := guards.Authenticated()
		assert.False(t, decision.Allowed)
		assert.Equal(t, RouteEntry, decision.RedirectTo)
		assert.False(t, session.IsAuthenticated())
	})

	t.Run("authenticated denies token without materialized user", func(t *testing.T) {
		tokens, session, guards := setup(t)
		require.NoError(t, tokens.SaveTokens(signedToken(t, "admin", time.Now().Add(time.Hour)), "r"))
		session.ClearUser()

		decision := guards.Authenticated()
		assert.False(t, decision.Allowed)
		assert.Equal(t, RouteEntry, decision.RedirectTo)
	})

	t.Run("role guard with no role redirects to entry", func(t *testing.T) {
		_, _, guards := setup(t)

		decision := guards.Role(model.RoleAdmin)
		assert.False(t, decision.Allowed)
		assert.Equal(t, RouteEntry, decision.RedirectTo)
	})

	t.Run("role guard with insufficient role redirects to dashboard", func(t *testing.T) {
		_, session, guards := setup(t)
		session.SetUser(model.SessionUser{ID: "u1", Role: model.RoleStudent})

		decision := guards.Role(model.RoleAdmin)
		assert.False(t, decision.Allowed)
		assert.Equal(t, RouteDashboard, decision.RedirectTo)
	})

	t.Run("role guard admits listed role", func(t *testing.T) {
		_, session, guards := setup(t)
		session.SetUser(model.SessionUser{ID: "u1", Role: model.RoleTrainer})

		assert.True(t, guards.Role(model.RoleAdmin, model.RoleTrainer).Allowed)
	})
}

func TestRoleGate_Reactive(t *testing.T) {
	store := NewMemStore()
	session := NewSessionState(store, NewTokenStore(store))
	gate := NewRoleGate(session)
	defer gate.Close()

	assert.False(t, gate.Visible(model.RoleAdmin))

	session.SetUser(model.SessionUser{ID: "u1", Role: model.RoleAdmin})
	assert.True(t, gate.Visible(model.RoleAdmin))
	assert.True(t, gate.Visible())

	session.SetUser(model.SessionUser{ID: "u1", Role: model.RoleStudent})
	assert.False(t, gate.Visible(model.RoleAdmin))
	assert.True(t, gate.Visible())

	session.ClearUser()
	assert.False(t, gate.Visible())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "state.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, err = store.Get(KeyAccessToken)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.Set(KeyAccessToken, "abc"))
	value, err := store.Get(KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "abc", value)

	// A fresh store over the same file sees persisted entries.
	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	value, err = reopened.Get(KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "abc", value)

	require.NoError(t, store.Delete(KeyAccessToken))
	_, err = store.Get(KeyAccessToken)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}
