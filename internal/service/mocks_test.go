package service

import (
	"context"

	"github.com/pageza/snapcal/backend/internal/types"
	"github.com/stretchr/testify/mock"
)

// MockVisionAdapter is a testify mock of VisionAdapter
type MockVisionAdapter struct {
	mock.Mock
}

func (m *MockVisionAdapter) AnalyzeWithCredential(ctx context.Context, image []byte, credential string) (*types.FoodAnalysisResult, error) {
	args := m.Called(ctx, image, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FoodAnalysisResult), args.Error(1)
}

// MockSettingsReader is a testify mock of SettingsReader
type MockSettingsReader struct {
	mock.Mock
}

func (m *MockSettingsReader) Current(ctx context.Context) (*Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Settings), args.Error(1)
}
