package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pageza/snapcal/backend/internal/types"
)

// ContentPart is one element of a multi-part chat message
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

type ImageURL struct {
	URL string `json:"url"`
}

// VisionMessage represents a message in the chat completion request
type VisionMessage struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// VisionRequest represents a chat completion request carrying an image
type VisionRequest struct {
	Model     string          `json:"model"`
	Messages  []VisionMessage `json:"messages"`
	MaxTokens int             `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GPTAnalyzer talks to an OpenAI-compatible chat completions endpoint
type GPTAnalyzer struct {
	apiURL    string
	model     string
	maxTokens int
	client    *http.Client
}

var _ VisionAdapter = (*GPTAnalyzer)(nil)

// NewGPTAnalyzer creates a GPT adapter. A nil client gets a default with the given timeout.
func NewGPTAnalyzer(apiURL, model string, maxTokens int, client *http.Client, timeout time.Duration) *GPTAnalyzer {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &GPTAnalyzer{
		apiURL:    apiURL,
		model:     model,
		maxTokens: maxTokens,
		client:    client,
	}
}

// BuildRequest assembles the single user message with the prompt and the image data URL
func (a *GPTAnalyzer) BuildRequest(image []byte) VisionRequest {
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)
	return VisionRequest{
		Model: a.model,
		Messages: []VisionMessage{
			{
				Role: "user",
				Content: []ContentPart{
					{Type: "text", Text: analysisPrompt},
					{Type: "image_url", ImageURL: &ImageURL{URL: dataURL}},
				},
			},
		},
		MaxTokens: a.maxTokens,
	}
}

func (a *GPTAnalyzer) AnalyzeWithCredential(ctx context.Context, image []byte, credential string) (*types.FoodAnalysisResult, error) {
	jsonData, err := json.Marshal(a.BuildRequest(image))
	if err != nil {
		return nil, newAnalysisError(KindTransportFailure, ProviderGPT, fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, newAnalysisError(KindTransportFailure, ProviderGPT, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", credential))

	resp, err := a.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, newAnalysisError(KindTransportFailure, ProviderGPT, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newAnalysisError(KindTransportFailure, ProviderGPT, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[GPTAnalyzer] API request failed with status %d", resp.StatusCode)
		return nil, &AnalysisError{
			Kind:     KindTransportFailure,
			Provider: ProviderGPT,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, truncate(string(body), 200)),
		}
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, &AnalysisError{Kind: KindMalformedResponse, Provider: ProviderGPT, Raw: string(body), Err: err}
	}
	if len(completion.Choices) == 0 || strings.TrimSpace(completion.Choices[0].Message.Content) == "" {
		return nil, newAnalysisError(KindEmptyResponse, ProviderGPT, nil)
	}

	return NormalizeResponse(ProviderGPT, completion.Choices[0].Message.Content)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
