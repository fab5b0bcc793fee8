package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/snapcal/backend/internal/service"
	"github.com/pageza/snapcal/backend/internal/types"
)

type SettingsHandler struct {
	settings service.ISettingsService
}

func NewSettingsHandler(settings service.ISettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/settings", h.GetSettings)
	router.PUT("/settings", h.UpdateSettings)
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settings.Current(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings.ToResponse())
}

// UpdateSettings patches the provided fields. Keys are write-only.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req types.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	settings, err := h.settings.Update(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings.ToResponse())
}
