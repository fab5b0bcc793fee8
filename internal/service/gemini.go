package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pageza/snapcal/backend/internal/types"
	"google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiAnalyzer calls the Generative Language generateContent endpoint
type GeminiAnalyzer struct {
	model    string
	endpoint string
	timeout  time.Duration
}

var _ VisionAdapter = (*GeminiAnalyzer)(nil)

// NewGeminiAnalyzer creates a Gemini adapter. An empty endpoint uses the public API.
func NewGeminiAnalyzer(model, endpoint string, timeout time.Duration) *GeminiAnalyzer {
	return &GeminiAnalyzer{
		model:    model,
		endpoint: endpoint,
		timeout:  timeout,
	}
}

// BuildRequest returns the single-turn request with the image part and the prompt
func (a *GeminiAnalyzer) BuildRequest(image []byte) *generativelanguage.GenerateContentRequest {
	return &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{
			{
				Role: "user",
				Parts: []*generativelanguage.Part{
					{InlineData: &generativelanguage.Blob{
						MimeType: "image/jpeg",
						Data:     base64.StdEncoding.EncodeToString(image),
					}},
					{Text: analysisPrompt},
				},
			},
		},
	}
}

func (a *GeminiAnalyzer) AnalyzeWithCredential(ctx context.Context, image []byte, credential string) (*types.FoodAnalysisResult, error) {
	opts := []option.ClientOption{
		option.WithHTTPClient(&http.Client{
			Timeout:   a.timeout,
			Transport: apiKeyTransport{key: credential},
		}),
	}
	if a.endpoint != "" {
		opts = append(opts, option.WithEndpoint(a.endpoint))
	}

	svc, err := generativelanguage.NewService(ctx, opts...)
	if err != nil {
		return nil, newAnalysisError(KindTransportFailure, ProviderGemini, fmt.Errorf("failed to create client: %w", err))
	}

	resp, err := svc.Models.GenerateContent("models/"+a.model, a.BuildRequest(image)).Context(ctx).Do()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		aerr := newAnalysisError(KindTransportFailure, ProviderGemini, err)
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			aerr.Status = apiErr.Code
		}
		return nil, aerr
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return nil, newAnalysisError(KindEmptyResponse, ProviderGemini, nil)
	}
	return NormalizeResponse(ProviderGemini, text)
}

// responseText joins the text parts of the first candidate
func responseText(resp *generativelanguage.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range c.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// apiKeyTransport sets the key header itself, since WithHTTPClient skips the
// library's own auth options
type apiKeyTransport struct {
	key string
}

func (t apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("x-goog-api-key", t.key)
	return http.DefaultTransport.RoundTrip(r)
}
