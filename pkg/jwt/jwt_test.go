package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := Generate("secret", "user-1", "ana", "customer", "suministros-api", 5)
	require.NoError(t, err)

	claims, err := Parse("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, "customer", claims.Role)
	assert.Equal(t, "suministros-api", claims.Issuer)
}

func TestParse_WrongSecret(t *testing.T) {
	tok, err := Generate("secret", "user-1", "ana", "admin", "x", 5)
	require.NoError(t, err)

	_, err = Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	tok, err := Generate("secret", "user-1", "ana", "admin", "x", -1)
	require.NoError(t, err)

	_, err = Parse("secret", tok)
	assert.Error(t, err)
}

func TestGenerate_EmptySecret(t *testing.T) {
	_, err := Generate("", "user-1", "ana", "admin", "x", 5)
	assert.Error(t, err)
}
