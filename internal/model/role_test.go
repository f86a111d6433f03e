package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleAdmin, ParseRole(" Admin "))
	assert.Equal(t, RoleTrainer, ParseRole("trainer"))
	assert.Equal(t, RoleStudent, ParseRole("student"))

	// Legacy spellings normalize instead of leaking through.
	assert.Equal(t, RoleTrainer, ParseRole("moderator"))
	assert.Equal(t, RoleStudent, ParseRole("user"))

	// Unknown values degrade to the default, never crash.
	assert.Equal(t, RoleStudent, ParseRole("superuser"))
	assert.Equal(t, RoleStudent, ParseRole(""))
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole("admin"))
	assert.True(t, IsValidRole("trainer"))
	assert.True(t, IsValidRole("student"))
	assert.False(t, IsValidRole("moderator"))
	assert.False(t, IsValidRole(""))
}

func TestSessionUser_UnmarshalLegacyRol(t *testing.T) {
	t.Run("canonical role field", func(t *testing.T) {
		var user SessionUser
		require.NoError(t, json.Unmarshal([]byte(`{"id":"u1","email":"a@b.com","role":"admin"}`), &user))
		assert.Equal(t, RoleAdmin, user.Role)
	})

	t.Run("legacy rol field", func(t *testing.T) {
		var user SessionUser
		require.NoError(t, json.Unmarshal([]byte(`{"id":"u1","email":"a@b.com","rol":"moderator"}`), &user))
		assert.Equal(t, RoleTrainer, user.Role)
	})

	t.Run("role wins when both present", func(t *testing.T) {
		var user SessionUser
		require.NoError(t, json.Unmarshal([]byte(`{"id":"u1","role":"admin","rol":"user"}`), &user))
		assert.Equal(t, RoleAdmin, user.Role)
	})
}
