package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pageza/snapcal/backend/internal/middleware"
	"github.com/pageza/snapcal/backend/internal/types"
)

const tokenIssuer = "snapcal"

// TokenService issues and checks the device tokens guarding the API
type TokenService struct {
	jwtSecret []byte
}

var _ middleware.TokenValidator = (*TokenService)(nil)

func NewTokenService(jwtSecret string) *TokenService {
	return &TokenService{jwtSecret: []byte(jwtSecret)}
}

// GenerateToken signs a token for device. A zero ttl never expires.
func (s *TokenService) GenerateToken(device string, ttl time.Duration) (string, error) {
	if device == "" {
		return "", errors.New("device name is required")
	}
	now := time.Now()
	claims := &types.DeviceClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   tokenIssuer,
			Subject:  device,
			IssuedAt: jwt.NewNumericDate(now),
		},
		Device: device,
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a signed token
func (s *TokenService) ValidateToken(tokenString string) (*types.DeviceClaims, error) {
	claims := &types.DeviceClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid || claims.Device == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
