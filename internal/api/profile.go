package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/snapcal/backend/internal/service"
	"github.com/pageza/snapcal/backend/internal/types"
)

type ProfileHandler struct {
	profiles service.IProfileService
}

func NewProfileHandler(profiles service.IProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.GET("/target", h.GetTarget)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profiles.GetProfile(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.ToProfileResponse(profile))
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req types.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	profile, err := h.profiles.SaveProfile(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.ToProfileResponse(profile))
}

// GetTarget returns the daily calorie target, 2000 when no profile exists
func (h *ProfileHandler) GetTarget(c *gin.Context) {
	target, err := h.profiles.TargetCalories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"target_calories": target})
}
