package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pageza/snapcal/backend/internal/models"
	"github.com/pageza/snapcal/backend/internal/types"
	"gorm.io/gorm"
)

// Settings is a snapshot of the analyzer configuration
type Settings struct {
	Provider   string
	OpenAIKey  string
	GeminiKey  string
	UnitSystem string
	Onboarded  bool
}

// Credential returns the key used by the given provider
func (s *Settings) Credential(p Provider) string {
	switch p {
	case ProviderGPT:
		return s.OpenAIKey
	case ProviderGemini, ProviderOnDevice:
		return s.GeminiKey
	default:
		return ""
	}
}

// SettingsReader is the pull accessor the orchestrator reads on every call
type SettingsReader interface {
	Current(ctx context.Context) (*Settings, error)
}

// SettingsService persists the single settings row
type SettingsService struct {
	db *gorm.DB
}

var _ SettingsReader = (*SettingsService)(nil)

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

func defaultSettings() *models.AnalyzerSettings {
	return &models.AnalyzerSettings{
		ID:         models.SettingsID,
		Provider:   string(DefaultProvider),
		UnitSystem: "metric",
	}
}

func (s *SettingsService) load(ctx context.Context) (*models.AnalyzerSettings, error) {
	var row models.AnalyzerSettings
	err := s.db.WithContext(ctx).First(&row, models.SettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return defaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return &row, nil
}

// Current reads the settings fresh from storage
func (s *SettingsService) Current(ctx context.Context) (*Settings, error) {
	row, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return &Settings{
		Provider:   row.Provider,
		OpenAIKey:  row.OpenAIKey,
		GeminiKey:  row.GeminiKey,
		UnitSystem: row.UnitSystem,
		Onboarded:  row.Onboarded,
	}, nil
}

// Update applies the non-nil fields of req
func (s *SettingsService) Update(ctx context.Context, req *types.SettingsRequest) (*Settings, error) {
	row, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if req.Provider != nil {
		row.Provider = strings.TrimSpace(*req.Provider)
	}
	if req.OpenAIKey != nil {
		row.OpenAIKey = strings.TrimSpace(*req.OpenAIKey)
	}
	if req.GeminiKey != nil {
		row.GeminiKey = strings.TrimSpace(*req.GeminiKey)
	}
	if req.UnitSystem != nil {
		switch u := strings.ToLower(*req.UnitSystem); u {
		case "metric", "imperial":
			row.UnitSystem = u
		default:
			return nil, fmt.Errorf("%w: unit system %q", ErrInvalidInput, *req.UnitSystem)
		}
	}
	if req.Onboarded != nil {
		row.Onboarded = *req.Onboarded
	}

	row.ID = models.SettingsID
	if err := s.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	return s.Current(ctx)
}

// ToResponse hides the credentials
func (s *Settings) ToResponse() types.SettingsResponse {
	return types.SettingsResponse{
		Provider:     s.Provider,
		HasOpenAIKey: strings.TrimSpace(s.OpenAIKey) != "",
		HasGeminiKey: strings.TrimSpace(s.GeminiKey) != "",
		UnitSystem:   s.UnitSystem,
		Onboarded:    s.Onboarded,
	}
}
