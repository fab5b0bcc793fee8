package service

import (
	"context"
	"strings"

	"github.com/pageza/snapcal/backend/internal/types"
)

// Provider identifies a vision analysis backend
type Provider string

const (
	ProviderGPT      Provider = "gpt"
	ProviderGemini   Provider = "gemini"
	ProviderOnDevice Provider = "ondevice"

	DefaultProvider = ProviderGPT
)

// Providers lists every selectable provider
var Providers = []Provider{ProviderGPT, ProviderGemini, ProviderOnDevice}

// ParseProvider maps a stored identifier onto a Provider
func ParseProvider(id string) (Provider, bool) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(id))); p {
	case ProviderGPT, ProviderGemini, ProviderOnDevice:
		return p, true
	default:
		return "", false
	}
}

// DisplayName is the human-readable provider name
func (p Provider) DisplayName() string {
	switch p {
	case ProviderGPT:
		return "OpenAI GPT"
	case ProviderGemini:
		return "Google Gemini"
	case ProviderOnDevice:
		return "On-device AI"
	default:
		return "Vision provider"
	}
}

// VisionAdapter sends one image to one provider and normalizes the answer
type VisionAdapter interface {
	AnalyzeWithCredential(ctx context.Context, image []byte, credential string) (*types.FoodAnalysisResult, error)
}

// analysisPrompt is sent verbatim to every remote provider
const analysisPrompt = `You are a nutrition expert. Analyze this image and identify all food items.
Return a JSON object with:
- foods: list of objects {name, calories(int), protein(float,g), carbs(float,g), fat(float,g), portion, confidence(0.0-1.0)}
- totalCalories: int
- confidence: float (overall)
- notes: string (optional)

Strictly return ONLY JSON.`
