package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/snapcal/backend/internal/service"
)

type DashboardHandler struct {
	dashboard service.IDashboardService
}

func NewDashboardHandler(dashboard service.IDashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	dashboard := router.Group("/dashboard")
	{
		dashboard.GET("/today", h.Today)
		dashboard.GET("/week", h.Week)
	}
}

// Today summarizes ?date=, today by default
func (h *DashboardHandler) Today(c *gin.Context) {
	day := now()
	if date := c.Query("date"); date != "" {
		parsed, err := service.ParseDate(date)
		if err != nil {
			respondError(c, err)
			return
		}
		day = parsed
	}

	summary, err := h.dashboard.Today(c.Request.Context(), day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *DashboardHandler) Week(c *gin.Context) {
	stats, err := h.dashboard.Week(c.Request.Context(), now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
