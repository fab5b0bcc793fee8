package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/snapcal/backend/internal/middleware"
	"github.com/pageza/snapcal/backend/internal/models"
	"github.com/pageza/snapcal/backend/internal/service"
)

// now is the clock used for "today" and entry timestamps
var now = time.Now

// Deps are the services the API is built on
type Deps struct {
	Analyzer  service.IAnalyzerService
	Drafts    service.DraftRepository
	Images    service.ImageStore
	Settings  service.ISettingsService
	Profiles  service.IProfileService
	Calories  service.ICalorieService
	Dashboard service.IDashboardService
	Tokens    middleware.TokenValidator
	// RateLimiter guards photo analysis. Nil disables limiting.
	RateLimiter *middleware.RateLimiter
}

func SetupAPI(router *gin.Engine, deps Deps) {
	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(deps.Tokens))
	{
		analysisHandler := NewAnalysisHandler(deps.Analyzer, deps.Drafts, deps.Images, deps.Calories, deps.RateLimiter)
		settingsHandler := NewSettingsHandler(deps.Settings)
		profileHandler := NewProfileHandler(deps.Profiles)
		entryHandler := NewEntryHandler(deps.Calories)
		dashboardHandler := NewDashboardHandler(deps.Dashboard)

		analysisHandler.RegisterRoutes(v1)
		settingsHandler.RegisterRoutes(v1)
		profileHandler.RegisterRoutes(v1)
		entryHandler.RegisterRoutes(v1)
		dashboardHandler.RegisterRoutes(v1)
	}
}

// today returns the current local date as YYYY-MM-DD
func today() string {
	return now().Format(models.DateLayout)
}

// loggedAtFor places an entry on the given date at the current time of day.
// An empty date means now.
func loggedAtFor(date string) (time.Time, error) {
	t := now()
	if date == "" || date == t.Format(models.DateLayout) {
		return t, nil
	}
	d, err := service.ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), t.Second(), 0, d.Location()), nil
}
