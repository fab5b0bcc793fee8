package api

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/snapcal/backend/internal/middleware"
	"github.com/pageza/snapcal/backend/internal/service"
	"github.com/pageza/snapcal/backend/internal/types"
)

// maxImageBytes caps uploaded photos before compression
const maxImageBytes = 20 << 20

type AnalysisHandler struct {
	analyzer    service.IAnalyzerService
	drafts      service.DraftRepository
	images      service.ImageStore
	calories    service.ICalorieService
	rateLimiter *middleware.RateLimiter
}

// NewAnalysisHandler builds the photo analysis endpoints. images and
// rateLimiter may be nil.
func NewAnalysisHandler(analyzer service.IAnalyzerService, drafts service.DraftRepository, images service.ImageStore, calories service.ICalorieService, rateLimiter *middleware.RateLimiter) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer:    analyzer,
		drafts:      drafts,
		images:      images,
		calories:    calories,
		rateLimiter: rateLimiter,
	}
}

func (h *AnalysisHandler) RegisterRoutes(router *gin.RouterGroup) {
	analysis := router.Group("/analysis")
	{
		if h.rateLimiter != nil {
			analysis.POST("", h.rateLimiter.RateLimitMiddleware(), h.Analyze)
		} else {
			analysis.POST("", h.Analyze)
		}
		analysis.GET("/drafts/:id", h.GetDraft)
		analysis.DELETE("/drafts/:id", h.DeleteDraft)
		analysis.POST("/drafts/:id/save", h.SaveDraft)
	}

	router.GET("/providers/ondevice", h.OnDeviceStatus)
}

// Analyze runs the uploaded photo through the selected provider and keeps
// the result as a draft until the user confirms it
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	image, err := readImage(c)
	if err != nil {
		respondError(c, err)
		return
	}
	image = service.PrepareImage(image)

	analysis, err := h.analyzer.AnalyzeImage(c.Request.Context(), image)
	if err != nil {
		respondError(c, err)
		return
	}

	draft := &types.AnalysisDraft{
		Provider: string(analysis.Provider),
		Result:   *analysis.Result,
	}
	if h.images != nil {
		// The photo is optional for logging, so a failed upload only loses the reference
		ref, err := h.images.Put(c.Request.Context(), image)
		if err != nil {
			log.Printf("[AnalysisHandler] photo upload failed: %v", err)
		} else {
			draft.ImageRef = &ref
		}
	}

	if err := h.drafts.SaveDraft(c.Request.Context(), draft); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, draft)
}

func (h *AnalysisHandler) GetDraft(c *gin.Context) {
	draft, err := h.drafts.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

func (h *AnalysisHandler) DeleteDraft(c *gin.Context) {
	if err := h.drafts.DeleteDraft(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SaveDraft turns a draft into food entries, one per item
func (h *AnalysisHandler) SaveDraft(c *gin.Context) {
	var req types.ConfirmAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	meal, err := service.ParseMealType(req.MealType)
	if err != nil {
		respondError(c, err)
		return
	}
	loggedAt, err := loggedAtFor(req.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	for i := range req.Foods {
		if err := service.ValidateFoodItem(&req.Foods[i]); err != nil {
			respondError(c, fmt.Errorf("foods[%d]: %w", i, err))
			return
		}
	}

	ctx := c.Request.Context()
	draft, err := h.drafts.TakeDraft(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	result := draft.Result
	if len(req.Foods) > 0 {
		result.Foods = req.Foods
		result.TotalCalories = 0
		for _, item := range req.Foods {
			result.TotalCalories += item.Calories
		}
	}

	entries, err := h.calories.AddAnalysisEntries(ctx, &result, draft.ImageRef, meal, loggedAt)
	if err != nil {
		if restoreErr := h.drafts.RestoreDraft(ctx, draft); restoreErr != nil {
			log.Printf("[AnalysisHandler] failed to restore draft %s: %v", draft.ID, restoreErr)
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entries)
}

func (h *AnalysisHandler) OnDeviceStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"available": h.analyzer.OnDeviceAvailable()})
}

// readImage accepts either a multipart "image" field or a raw request body
func readImage(c *gin.Context) ([]byte, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("image")
		if err != nil {
			return nil, fmt.Errorf("%w: image form field is required", service.ErrInvalidInput)
		}
		if header.Size > maxImageBytes {
			return nil, fmt.Errorf("%w: image exceeds %d bytes", service.ErrInvalidInput, maxImageBytes)
		}
		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open uploaded image: %w", err)
		}
		defer file.Close()
		return readNonEmpty(file)
	}

	return readNonEmpty(http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes))
}

func readNonEmpty(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: image exceeds %d bytes", service.ErrInvalidInput, maxImageBytes)
		}
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: image is empty", service.ErrInvalidInput)
	}
	return data, nil
}
