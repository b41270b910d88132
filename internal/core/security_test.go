// CBarrera | 2026
// security_test.go

package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotEqual(t, "correct horse battery staple", hash)

	require.True(t, VerifyPassword("correct horse battery staple", hash))
	require.False(t, VerifyPassword("wrong password", hash))
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	first, err := HashPassword("secret1")
	require.NoError(t, err)
	second, err := HashPassword("secret1")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}

func TestVerifyPasswordTimingSafeNilHash(t *testing.T) {
	require.False(t, VerifyPasswordTimingSafe("anything", nil))
}

func TestVerifyPasswordTimingSafeMatch(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)

	require.True(t, VerifyPasswordTimingSafe("secret1", &hash))
	require.False(t, VerifyPasswordTimingSafe("secret2", &hash))
}

func TestGenerateRefreshToken(t *testing.T) {
	first, err := GenerateRefreshToken()
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := GenerateRefreshToken()
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestTokenHashCompare(t *testing.T) {
	token, err := GenerateRefreshToken()
	require.NoError(t, err)

	hash := HashToken(token)
	require.NotEqual(t, token, hash)
	require.True(t, CompareTokenHash(token, hash))
	require.False(t, CompareTokenHash("other", hash))
}
