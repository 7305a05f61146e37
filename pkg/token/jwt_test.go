package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGenerateAndVerify tests the issue/verify round trip
func TestGenerateAndVerify(t *testing.T) {
	m := NewManager("secret-key", time.Hour)
	userID := uuid.New()

	signed, err := m.Generate(userID, "alice", "USER")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := m.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "USER", claims.Role)
	assert.Equal(t, userID.String(), claims.Subject)
}

// TestVerify_WrongSecret tests rejection of tokens signed with another key
func TestVerify_WrongSecret(t *testing.T) {
	m := NewManager("secret-key", time.Hour)
	other := NewManager("different-key", time.Hour)

	signed, err := m.Generate(uuid.New(), "bob", "DRIVER")
	require.NoError(t, err)

	_, err = other.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// TestVerify_Expired tests rejection of expired tokens
func TestVerify_Expired(t *testing.T) {
	m := NewManager("secret-key", -time.Minute)

	signed, err := m.Generate(uuid.New(), "carol", "USER")
	require.NoError(t, err)

	_, err = m.Verify(signed)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

// TestVerify_Garbage tests rejection of malformed input
func TestVerify_Garbage(t *testing.T) {
	m := NewManager("secret-key", time.Hour)

	_, err := m.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
