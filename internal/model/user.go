package model

import (
	"encoding/json"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type AuthClaims struct {
	UserID  string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    Role   `json:"role"`
	Type    string `json:"typ"`
	TokenID string `json:"jti"`
}

// SessionUser is the identity slice carried by tokens, login responses and
// the client-side session cache.
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// UnmarshalJSON accepts both the canonical "role" field and the legacy
// "rol" spelling, normalizing the value either way.
func (u *SessionUser) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		Role      string `json:"role"`
		LegacyRol string `json:"rol"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	value := raw.Role
	if value == "" {
		value = raw.LegacyRol
	}

	u.ID = raw.ID
	u.Name = raw.Name
	u.Email = raw.Email
	u.Role = ParseRole(value)
	return nil
}

type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// AuthPayload is the data section of a successful login or refresh response.
type AuthPayload struct {
	User    SessionUser `json:"user"`
	Session Session     `json:"session"`
}
