package service

import (
	"context"
	"io"
	"time"

	"github.com/pageza/snapcal/backend/internal/models"
	"github.com/pageza/snapcal/backend/internal/types"
)

// IAnalyzerService defines the interface for photo analysis
type IAnalyzerService interface {
	AnalyzeImage(ctx context.Context, image []byte) (*Analysis, error)
	OnDeviceAvailable() bool
}

// ISettingsService defines the interface for analyzer settings
type ISettingsService interface {
	Current(ctx context.Context) (*Settings, error)
	Update(ctx context.Context, req *types.SettingsRequest) (*Settings, error)
}

// IProfileService defines the interface for the active profile
type IProfileService interface {
	GetProfile(ctx context.Context) (*models.Profile, error)
	SaveProfile(ctx context.Context, req *types.ProfileRequest) (*models.Profile, error)
	TargetCalories(ctx context.Context) (int, error)
}

// ICalorieService defines the interface for food entries and their aggregates
type ICalorieService interface {
	AddAnalysisEntries(ctx context.Context, result *types.FoodAnalysisResult, imageRef *string, meal MealType, loggedAt time.Time) ([]models.FoodEntry, error)
	AddManualEntry(ctx context.Context, req *types.EntryRequest, loggedAt time.Time) (*models.FoodEntry, error)
	UpdateEntry(ctx context.Context, id uint, req *types.EntryRequest) (*models.FoodEntry, error)
	DeleteEntry(ctx context.Context, id uint) error
	TodayEntries(ctx context.Context, date string) ([]models.FoodEntry, error)
	DailyStats(ctx context.Context, start, end string) ([]types.DailyStats, error)
	ExportCSV(ctx context.Context, w io.Writer) error
}

// IDashboardService defines the interface for dashboard figures
type IDashboardService interface {
	Today(ctx context.Context, day time.Time) (*TodaySummary, error)
	Week(ctx context.Context, today time.Time) ([]types.DailyStats, error)
}

var (
	_ IAnalyzerService  = (*AnalyzerService)(nil)
	_ ISettingsService  = (*SettingsService)(nil)
	_ IProfileService   = (*ProfileService)(nil)
	_ ICalorieService   = (*CalorieService)(nil)
	_ IDashboardService = (*DashboardService)(nil)
)
