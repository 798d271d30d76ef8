package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globaltripmarket/finance-api/models"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("gizli-şifre")
	require.NoError(t, err)
	assert.NotEqual(t, "gizli-şifre", hash)

	assert.True(t, CheckPassword("gizli-şifre", hash))
	assert.False(t, CheckPassword("yanlış", hash))
}

func TestSessionTokenRoundTrip(t *testing.T) {
	user := models.SessionUser{
		ID:          "1",
		Username:    "admin",
		DisplayName: "Yönetici",
		Role:        models.RoleAdmin,
	}

	token, err := GenerateSessionToken(user)
	require.NoError(t, err)

	parsed, err := ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, user, *parsed)
}

func TestParseSessionToken_Invalid(t *testing.T) {
	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := ParseSessionToken(token)
		assert.Error(t, err, "token %q", token)
	}
}

func TestParseSessionToken_TamperedSignature(t *testing.T) {
	token, err := GenerateSessionToken(models.SessionUser{ID: "1", Username: "admin"})
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = ParseSessionToken(tampered)
	assert.Error(t, err)
}
