package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGeminiServer(t *testing.T, status int, body string, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-1.5-flash:generateContent"), r.URL.Path)
		assert.Equal(t, "g-key", r.Header.Get("x-goog-api-key"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req struct {
			Contents []struct {
				Parts []struct {
					Text       string `json:"text"`
					InlineData *struct {
						MimeType string `json:"mimeType"`
						Data     string `json:"data"`
					} `json:"inlineData"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.Unmarshal(raw, &req))
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 2)
		assert.Equal(t, "image/jpeg", req.Contents[0].Parts[0].InlineData.MimeType)
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("img")), req.Contents[0].Parts[0].InlineData.Data)
		assert.Contains(t, req.Contents[0].Parts[1].Text, "nutrition expert")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func candidateBody(texts ...string) string {
	parts := make([]map[string]string, len(texts))
	for i, text := range texts {
		parts[i] = map[string]string{"text": text}
	}
	b, _ := json.Marshal(map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{"content": map[string]interface{}{"role": "model", "parts": parts}},
		},
	})
	return string(b)
}

func TestGeminiAnalyzer_AnalyzeWithCredential(t *testing.T) {
	t.Run("should parse first candidate text", func(t *testing.T) {
		var calls int32
		srv := newGeminiServer(t, http.StatusOK, candidateBody("```json\n{\"foods\":[{\"name\":\"Toast\",", "\"calories\":80,\"protein\":3,\"carbs\":14,\"fat\":1,\"portion\":\"1 slice\",\"confidence\":0.8}],\"totalCalories\":80,\"confidence\":0.7}\n```"), &calls)
		a := NewGeminiAnalyzer("gemini-1.5-flash", srv.URL+"/", 5*time.Second)

		result, err := a.AnalyzeWithCredential(context.Background(), []byte("img"), "g-key")

		require.NoError(t, err)
		require.Len(t, result.Foods, 1)
		assert.Equal(t, "Toast", result.Foods[0].Name)
		assert.Equal(t, 80, result.TotalCalories)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("should report empty response without candidates", func(t *testing.T) {
		var calls int32
		srv := newGeminiServer(t, http.StatusOK, `{"candidates":[]}`, &calls)
		a := NewGeminiAnalyzer("gemini-1.5-flash", srv.URL+"/", 5*time.Second)

		_, err := a.AnalyzeWithCredential(context.Background(), []byte("img"), "g-key")

		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("should report malformed text", func(t *testing.T) {
		var calls int32
		srv := newGeminiServer(t, http.StatusOK, candidateBody(`{"foods": [`), &calls)
		a := NewGeminiAnalyzer("gemini-1.5-flash", srv.URL+"/", 5*time.Second)

		_, err := a.AnalyzeWithCredential(context.Background(), []byte("img"), "g-key")

		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("should map API error to transport failure", func(t *testing.T) {
		var calls int32
		srv := newGeminiServer(t, http.StatusForbidden, `{"error":{"code":403,"message":"API key not valid"}}`, &calls)
		a := NewGeminiAnalyzer("gemini-1.5-flash", srv.URL+"/", 5*time.Second)

		_, err := a.AnalyzeWithCredential(context.Background(), []byte("img"), "g-key")

		require.ErrorIs(t, err, ErrTransportFailure)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		var aerr *AnalysisError
		require.True(t, errors.As(err, &aerr))
		assert.Equal(t, http.StatusForbidden, aerr.Status)
		assert.False(t, aerr.Retryable())
	})
}
