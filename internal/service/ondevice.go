package service

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pageza/snapcal/backend/internal/types"
)

// DefaultOnDeviceComponents are the platform AI services whose presence signals on-device support
var DefaultOnDeviceComponents = []string{
	"com.google.android.aicore",
	"com.google.android.as",
}

// CapabilityProbe reports whether a provider can run here
type CapabilityProbe interface {
	IsAvailable() bool
}

// OnDeviceProbe checks the platform version and the installed AI components.
// It performs no network or model call.
type OnDeviceProbe struct {
	platformVersion int
	minVersion      int
	componentDir    string
	components      []string
	stat            func(string) (os.FileInfo, error)
}

var _ CapabilityProbe = (*OnDeviceProbe)(nil)

func NewOnDeviceProbe(platformVersion, minVersion int, componentDir string, components []string) *OnDeviceProbe {
	if components == nil {
		components = DefaultOnDeviceComponents
	}
	return &OnDeviceProbe{
		platformVersion: platformVersion,
		minVersion:      minVersion,
		componentDir:    componentDir,
		components:      components,
		stat:            os.Stat,
	}
}

func (p *OnDeviceProbe) IsAvailable() (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	if p == nil || p.platformVersion < p.minVersion {
		return false
	}
	for _, c := range p.components {
		if _, err := p.stat(filepath.Join(p.componentDir, c)); err == nil {
			return true
		}
	}
	return false
}

// OnDeviceAnalyzer serves requests only where the probe succeeds. Inference
// itself runs through the cloud Gemini model, as the platform service does.
type OnDeviceAnalyzer struct {
	probe CapabilityProbe
	cloud VisionAdapter
}

var _ VisionAdapter = (*OnDeviceAnalyzer)(nil)

func NewOnDeviceAnalyzer(probe CapabilityProbe, cloud VisionAdapter) *OnDeviceAnalyzer {
	return &OnDeviceAnalyzer{probe: probe, cloud: cloud}
}

func (a *OnDeviceAnalyzer) IsAvailable() bool {
	return a.probe != nil && a.probe.IsAvailable()
}

func (a *OnDeviceAnalyzer) AnalyzeWithCredential(ctx context.Context, image []byte, credential string) (*types.FoodAnalysisResult, error) {
	if !a.IsAvailable() {
		return nil, newAnalysisError(KindUnavailableProvider, ProviderOnDevice, nil)
	}
	result, err := a.cloud.AnalyzeWithCredential(ctx, image, credential)
	if aerr, ok := err.(*AnalysisError); ok {
		aerr.Provider = ProviderOnDevice
	}
	return result, err
}
