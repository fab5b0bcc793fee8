package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pageza/snapcal/backend/internal/types"
)

// OnDeviceAdapter is a vision adapter guarded by a capability probe
type OnDeviceAdapter interface {
	VisionAdapter
	CapabilityProbe
}

// Analysis is an analysis result tagged with the provider that produced it
type Analysis struct {
	Provider Provider
	Result   *types.FoodAnalysisResult
}

// AnalyzerService picks the configured provider and runs one analysis
type AnalyzerService struct {
	settings SettingsReader
	gpt      VisionAdapter
	gemini   VisionAdapter
	onDevice OnDeviceAdapter
	metrics  *AnalysisMetrics
}

// NewAnalyzerService wires the orchestrator. metrics may be nil.
func NewAnalyzerService(settings SettingsReader, gpt, gemini VisionAdapter, onDevice OnDeviceAdapter, metrics *AnalysisMetrics) *AnalyzerService {
	return &AnalyzerService{
		settings: settings,
		gpt:      gpt,
		gemini:   gemini,
		onDevice: onDevice,
		metrics:  metrics,
	}
}

// Analyze runs the image through the currently selected provider
func (s *AnalyzerService) Analyze(ctx context.Context, image []byte) (*types.FoodAnalysisResult, error) {
	a, err := s.AnalyzeImage(ctx, image)
	if err != nil {
		return nil, err
	}
	return a.Result, nil
}

// AnalyzeImage is Analyze plus the provider that served the call.
// Settings are read on every call so credential changes apply immediately.
// No retries happen here.
func (s *AnalyzerService) AnalyzeImage(ctx context.Context, image []byte) (*Analysis, error) {
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read analyzer settings: %w", err)
	}

	provider := s.resolveProvider(settings.Provider)
	started := time.Now()

	result, err := s.dispatch(ctx, provider, settings, image)
	s.metrics.Observe(provider, started, err)
	if err != nil {
		log.Printf("[AnalyzerService] %s analysis failed: %v", provider, err)
		return nil, err
	}

	log.Printf("[AnalyzerService] %s recognized %d food items (%d bytes)", provider, len(result.Foods), len(image))
	return &Analysis{Provider: provider, Result: result}, nil
}

// resolveProvider falls back to the default for unknown identifiers
func (s *AnalyzerService) resolveProvider(id string) Provider {
	if p, ok := ParseProvider(id); ok {
		return p
	}
	if strings.TrimSpace(id) != "" {
		log.Printf("[AnalyzerService] unknown provider %q, using %s", id, DefaultProvider)
	}
	return DefaultProvider
}

func (s *AnalyzerService) dispatch(ctx context.Context, p Provider, settings *Settings, image []byte) (*types.FoodAnalysisResult, error) {
	var adapter VisionAdapter
	switch p {
	case ProviderGPT:
		adapter = s.gpt
	case ProviderGemini:
		adapter = s.gemini
	case ProviderOnDevice:
		if s.onDevice == nil || !s.onDevice.IsAvailable() {
			return nil, newAnalysisError(KindUnavailableProvider, p, nil)
		}
		adapter = s.onDevice
	default:
		panic(fmt.Sprintf("unhandled provider %q", p))
	}

	credential := settings.Credential(p)
	if strings.TrimSpace(credential) == "" {
		return nil, newAnalysisError(KindMissingCredential, p, nil)
	}

	return adapter.AnalyzeWithCredential(ctx, image, credential)
}

// OnDeviceAvailable exposes the capability probe
func (s *AnalyzerService) OnDeviceAvailable() bool {
	return s.onDevice != nil && s.onDevice.IsAvailable()
}
