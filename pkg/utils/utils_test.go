package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("cheesy123")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("cheesy123", hash))
	assert.False(t, CheckPasswordHash("cheesy124", hash))
}

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	id := uuid.New()

	token, err := m.GenerateAccessToken(id, "admin@mscheesy.test", []string{"admin"}, []string{"products:manage"})
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, []string{"products:manage"}, claims.Permissions)

	_, err = NewJWTManager("other", time.Hour).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute)
	token, err := m.GenerateAccessToken(uuid.New(), "a@b.c", nil, nil)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}
