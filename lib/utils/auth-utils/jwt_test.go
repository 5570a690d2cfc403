package authutils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"permit-workflow-backend/config"
	"permit-workflow-backend/models"
)

func setTestConfig() {
	config.Conf = &config.Configuration{}
	config.Conf.Auth.JWTSecret = "test-secret"
	config.Conf.Auth.JWTExpireInSec = 60
	config.Conf.Auth.JWTRefreshExpireInSec = 120
}

func TestTokens(t *testing.T) {
	setTestConfig()
	t.Run("access token carries role and subject", func(t *testing.T) {
		token, err := GetToken("user-1", "John Doe", models.ChairpersonRole)
		require.NoError(t, err)
		claims, err := ParseToken(token)
		require.NoError(t, err)
		require.Equal(t, "user-1", claims["sub"])
		require.Equal(t, "chairperson", claims["role"])
		require.Equal(t, "John Doe", claims["name"])
	})
	t.Run("access token is not a refresh token", func(t *testing.T) {
		token, err := GetToken("user-1", "John Doe", models.IctRole)
		require.NoError(t, err)
		_, err = ParseRefreshToken(token)
		require.Error(t, err)
	})
	t.Run("refresh token round trip", func(t *testing.T) {
		token, err := GetRefreshToken("user-2", "Jane")
		require.NoError(t, err)
		userID, err := ParseRefreshToken(token)
		require.NoError(t, err)
		require.Equal(t, "user-2", userID)
	})
	t.Run("foreign signature is refused", func(t *testing.T) {
		claims := jwt.MapClaims{"sub": "x", "exp": time.Now().Add(time.Minute).Unix()}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other"))
		require.NoError(t, err)
		_, err = ParseToken(token)
		require.Error(t, err)
	})
	t.Run("expired token is refused", func(t *testing.T) {
		claims := jwt.MapClaims{"sub": "x", "exp": time.Now().Add(-time.Minute).Unix()}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = ParseToken(token)
		require.Error(t, err)
	})
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-password", hash)
	require.True(t, CheckPassword(hash, "s3cret-password"))
	require.False(t, CheckPassword(hash, "wrong-password"))
	require.False(t, CheckPassword("not-a-hash", "s3cret-password"))
}
