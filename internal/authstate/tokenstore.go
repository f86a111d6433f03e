package authstate

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"sportspace-admin/internal/model"
)

// Claims is the decoded view of an access token as seen by the client.
// Tokens are decoded without signature verification: the backend is the
// verifier, the client only reads identity and expiry from its own token.
type Claims struct {
	Subject   string
	Name      string
	Email     string
	Role      model.Role
	ExpiresAt time.Time
}

// TokenStore is the sole owner of the bearer-token pair's persistence and
// expiry evaluation. It performs no network calls.
type TokenStore struct {
	store Store
	now   func() time.Time
}

func NewTokenStore(store Store) *TokenStore {
	return &TokenStore{store: store, now: time.Now}
}

// SaveTokens overwrites both tokens unconditionally.
func (t *TokenStore) SaveTokens(access string, refresh string) error {
	if err := t.store.Set(KeyAccessToken, access); err != nil {
		return err
	}
	return t.store.Set(KeyRefreshToken, refresh)
}

// AccessToken returns the persisted access token, or "" if absent.
func (t *TokenStore) AccessToken() string {
	value, err := t.store.Get(KeyAccessToken)
	if err != nil {
		return ""
	}
	return value
}

// RefreshToken returns the persisted refresh token, or "" if absent.
func (t *TokenStore) RefreshToken() string {
	value, err := t.store.Get(KeyRefreshToken)
	if err != nil {
		return ""
	}
	return value
}

// IsTokenExpired reports whether the stored access token has passed its
// expiry claim. Fails closed: a missing, malformed or claim-less token is
// treated as expired.
func (t *TokenStore) IsTokenExpired() bool {
	claims := t.DecodeToken()
	if claims == nil {
		return true
	}
	if claims.ExpiresAt.IsZero() {
		return true
	}
	return !t.now().Before(claims.ExpiresAt)
}

// DecodeToken parses the stored access token's claim set without verifying
// the signature. Returns nil on absent or malformed tokens, never an error.
func (t *TokenStore) DecodeToken() *Claims {
	raw := t.AccessToken()
	if raw == "" {
		return nil
	}

	parsed := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, parsed); err != nil {
		return nil
	}

	claims := &Claims{
		Subject: stringClaim(parsed, "sub"),
		Name:    stringClaim(parsed, "name"),
		Email:   stringClaim(parsed, "email"),
	}
	if role := stringClaim(parsed, "role"); role != "" {
		claims.Role = model.ParseRole(role)
	}
	if exp, err := parsed.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims
}

// ClearTokens removes both tokens from durable storage.
func (t *TokenStore) ClearTokens() error {
	accessErr := t.store.Delete(KeyAccessToken)
	refreshErr := t.store.Delete(KeyRefreshToken)
	return errors.Join(accessErr, refreshErr)
}

func stringClaim(claims jwt.MapClaims, key string) string {
	value, _ := claims[key].(string)
	return value
}
