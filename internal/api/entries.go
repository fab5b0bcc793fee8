package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/snapcal/backend/internal/models"
	"github.com/pageza/snapcal/backend/internal/service"
	"github.com/pageza/snapcal/backend/internal/types"
)

type EntryHandler struct {
	calories service.ICalorieService
}

func NewEntryHandler(calories service.ICalorieService) *EntryHandler {
	return &EntryHandler{calories: calories}
}

func (h *EntryHandler) RegisterRoutes(router *gin.RouterGroup) {
	entries := router.Group("/entries")
	{
		entries.GET("", h.ListEntries)
		entries.POST("", h.CreateEntry)
		entries.PUT("/:id", h.UpdateEntry)
		entries.DELETE("/:id", h.DeleteEntry)
	}

	router.GET("/stats/daily", h.DailyStats)
	router.GET("/export.csv", h.ExportCSV)
}

// ListEntries returns the entries of ?date=, today by default
func (h *EntryHandler) ListEntries(c *gin.Context) {
	date := c.DefaultQuery("date", today())
	if _, err := service.ParseDate(date); err != nil {
		respondError(c, err)
		return
	}

	entries, err := h.calories.TodayEntries(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}
	if entries == nil {
		entries = []models.FoodEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

// CreateEntry stores a manual entry on ?date=, today by default
func (h *EntryHandler) CreateEntry(c *gin.Context) {
	var req types.EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	loggedAt, err := loggedAtFor(c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}

	entry, err := h.calories.AddManualEntry(c.Request.Context(), &req, loggedAt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *EntryHandler) UpdateEntry(c *gin.Context) {
	id, err := entryID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var req types.EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	entry, err := h.calories.UpdateEntry(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *EntryHandler) DeleteEntry(c *gin.Context) {
	id, err := entryID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.calories.DeleteEntry(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DailyStats aggregates ?start= through ?end=. Days without entries are omitted.
func (h *EntryHandler) DailyStats(c *gin.Context) {
	start, end := c.Query("start"), c.Query("end")
	from, err := service.ParseDate(start)
	if err != nil {
		respondError(c, err)
		return
	}
	to, err := service.ParseDate(end)
	if err != nil {
		respondError(c, err)
		return
	}
	if to.Before(from) {
		respondError(c, fmt.Errorf("%w: end %s is before start %s", service.ErrInvalidInput, end, start))
		return
	}

	stats, err := h.calories.DailyStats(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	if stats == nil {
		stats = []types.DailyStats{}
	}
	c.JSON(http.StatusOK, stats)
}

// ExportCSV downloads every entry as CSV, latest first
func (h *EntryHandler) ExportCSV(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.calories.ExportCSV(c.Request.Context(), &buf); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="snapcal-%s.csv"`, today()))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func entryID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: entry id %q", service.ErrInvalidInput, c.Param("id"))
	}
	return uint(id), nil
}
