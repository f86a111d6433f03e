package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportspace-admin/internal/authstate"
	"sportspace-admin/internal/model"
)

func TestClient_LoginScenario(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/auth/login", r.URL.Path)

		var req model.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "a@b.com", req.Email)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": {
				"user": {"id":"u1","email":"a@b.com","role":"admin"},
				"session": {"access_token":"T1","refresh_token":"R1","expires_in":3600,"token_type":"Bearer"}
			}
		}`))
	}))
	defer server.Close()

	store := authstate.NewMemStore()
	tokens := authstate.NewTokenStore(store)
	session := authstate.NewSessionState(store, tokens)

	client, err := New(server.URL, Options{Tokens: tokens})
	require.NoError(t, err)

	payload, err := client.Login(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)

	require.NoError(t, tokens.SaveTokens(payload.Session.AccessToken, payload.Session.RefreshToken))
	session.SetUser(payload.User)

	assert.Equal(t, "T1", tokens.AccessToken())
	assert.Equal(t, "R1", tokens.RefreshToken())
	require.NotNil(t, session.CurrentUser())
	assert.Equal(t, model.RoleAdmin, session.CurrentUser().Role)
}

func TestClient_LoginRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"INVALID_CREDENTIALS","message":"invalid email or password"}}`))
	}))
	defer server.Close()

	client, err := New(server.URL, Options{})
	require.NoError(t, err)

	_, err = client.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	assert.True(t, IsAuthError(err))

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "INVALID_CREDENTIALS", apiErr.Code)
}

func TestClient_BearerInjection(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer server.Close()

	client, err := New(server.URL, Options{Tokens: StaticToken("tok-123")})
	require.NoError(t, err)

	_, err = client.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClient_EnvelopeDecoding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/bookings":
			_, _ = w.Write([]byte(`{"success":true,"data":[{"id":"b1","space_id":"s1","date":"2026-08-30"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"error":{"code":"NOT_FOUND","message":"no such resource"}}`))
		}
	}))
	defer server.Close()

	client, err := New(server.URL, Options{})
	require.NoError(t, err)

	bookings, err := client.ListBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "b1", bookings[0].ID)

	_, err = client.GetUser(context.Background(), "missing")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
}
