package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pageza/snapcal/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService(t *testing.T) {
	svc := NewTokenService("test-secret")

	t.Run("should round trip a device token", func(t *testing.T) {
		token, err := svc.GenerateToken("pixel-8", time.Hour)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)

		require.NoError(t, err)
		assert.Equal(t, "pixel-8", claims.Device)
		assert.Equal(t, "snapcal", claims.Issuer)
	})

	t.Run("should reject expired tokens", func(t *testing.T) {
		claims := &types.DeviceClaims{
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "snapcal", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
			Device:           "pixel-8",
		}
		expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = svc.ValidateToken(expired)

		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("should reject other secrets", func(t *testing.T) {
		token, err := NewTokenService("other").GenerateToken("pixel-8", time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)

		assert.Error(t, err)
	})

	t.Run("should reject unsigned tokens", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, &types.DeviceClaims{Device: "x"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)

		assert.Error(t, err)
	})

	t.Run("should require a device", func(t *testing.T) {
		_, err := svc.GenerateToken("", time.Hour)
		assert.Error(t, err)
	})
}
