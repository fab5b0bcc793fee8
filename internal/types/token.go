package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// DeviceClaims represents the claims in a device access token
type DeviceClaims struct {
	jwt.RegisteredClaims
	Device string `json:"device"`
}
