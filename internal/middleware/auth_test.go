package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pageza/snapcal/backend/internal/types"
	"github.com/stretchr/testify/assert"
)

type stubValidator struct{}

func (stubValidator) ValidateToken(token string) (*types.DeviceClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &types.DeviceClaims{Device: "pixel-8"}, nil
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(stubValidator{}), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(DeviceKey))
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"should accept valid token", "Bearer good", http.StatusOK, "pixel-8"},
		{"should reject missing header", "", http.StatusUnauthorized, ""},
		{"should reject wrong scheme", "Basic good", http.StatusUnauthorized, ""},
		{"should reject empty token", "Bearer ", http.StatusUnauthorized, ""},
		{"should reject invalid token", "Bearer nope", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			newAuthRouter().ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}
