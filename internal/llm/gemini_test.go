// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiBackendGenerate(t *testing.T) {
	var gotBody geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "gemini-1.5-flash:generateContent"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "  generated text \n"}}}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	old := geminiAPIBase
	geminiAPIBase = srv.URL
	defer func() { geminiAPIBase = old }()

	b := NewGeminiBackend("test-key")
	text, err := b.Generate(context.Background(), Request{
		Model:        "gemini-1.5-flash",
		SystemPrompt: "sys",
		UserPrompt:   "user",
		ModelConfig:  ModelConfig{MaxTokens: 321, Temperature: 0.5},
	})
	require.NoError(t, err)
	assert.Equal(t, "generated text", text)

	require.NotNil(t, gotBody.SystemInstruction)
	assert.Equal(t, "sys", gotBody.SystemInstruction.Parts[0].Text)
	require.Len(t, gotBody.Contents, 1)
	assert.Equal(t, "user", gotBody.Contents[0].Parts[0].Text)
	assert.Equal(t, 321, gotBody.GenerationConfig.MaxOutputTokens)
	assert.InDelta(t, 0.5, gotBody.GenerationConfig.Temperature, 1e-9)
}

func TestGeminiBackendHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	old := geminiAPIBase
	geminiAPIBase = srv.URL
	defer func() { geminiAPIBase = old }()

	b := NewGeminiBackend("k")
	_, err := b.Generate(context.Background(), Request{Model: "gemini-1.5-pro"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGeminiBackendEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer srv.Close()

	old := geminiAPIBase
	geminiAPIBase = srv.URL
	defer func() { geminiAPIBase = old }()

	b := NewGeminiBackend("k")
	_, err := b.Generate(context.Background(), Request{Model: "gemini-1.5-pro"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty Gemini response")
}
