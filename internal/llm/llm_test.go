// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient is a canned backend for Service tests.
type stubClient struct {
	text  string
	err   error
	calls int
	last  Request
}

func (s *stubClient) Generate(_ context.Context, req Request) (string, error) {
	s.calls++
	s.last = req
	return s.text, s.err
}

func TestCatalogLookup(t *testing.T) {
	c := DefaultCatalog()

	mc, err := c.Lookup(ProviderOpenAI, "gpt-4o")
	require.NoError(t, err)
	assert.Equal(t, "GPT-4o", mc.DisplayName)
	assert.Equal(t, 500, mc.MaxTokens)
	assert.InDelta(t, 0.7, mc.Temperature, 1e-9)

	_, err = c.Lookup("Cohere", "command-r")
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "Cohere", cfgErr.Provider)

	_, err = c.Lookup(ProviderAnthropic, "claude-1")
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "claude-1", cfgErr.Model)
}

func TestCatalogProvidersSorted(t *testing.T) {
	got := DefaultCatalog().Providers()
	assert.Equal(t, []string{ProviderAnthropic, ProviderGoogle, ProviderOpenAI}, got)
}

func TestServiceGenerate(t *testing.T) {
	stub := &stubClient{text: "OK"}
	svc := NewService(DefaultCatalog(), 1)
	svc.Register(ProviderOpenAI, stub)

	text, err := svc.Generate(context.Background(), ProviderOpenAI, "gpt-4o", "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "OK", text)
	assert.Equal(t, "sys", stub.last.SystemPrompt)
	assert.Equal(t, "user", stub.last.UserPrompt)
	assert.Equal(t, 500, stub.last.ModelConfig.MaxTokens)
}

func TestServiceUnknownProviderFailsFast(t *testing.T) {
	stub := &stubClient{text: "OK"}
	svc := NewService(DefaultCatalog(), 1)
	svc.Register(ProviderOpenAI, stub)

	_, err := svc.Generate(context.Background(), "Cohere", "command-r", "s", "u")
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Zero(t, stub.calls, "no backend call for unknown provider")
}

func TestServiceMissingBackend(t *testing.T) {
	svc := NewService(DefaultCatalog(), 1)

	_, err := svc.Generate(context.Background(), ProviderGoogle, "gemini-1.5-pro", "s", "u")
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Contains(t, genErr.Error(), "no API key configured")
}

func TestServiceRetriesThenWraps(t *testing.T) {
	old := retryBase
	retryBase = time.Millisecond
	defer func() { retryBase = old }()

	stub := &stubClient{err: fmt.Errorf("rate limited")}
	svc := NewService(DefaultCatalog(), 2)
	svc.Register(ProviderAnthropic, stub)

	_, err := svc.Generate(context.Background(), ProviderAnthropic, "claude-3-5-haiku-latest", "s", "u")
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, 3, stub.calls, "initial attempt plus two retries")
	assert.Contains(t, genErr.Error(), "Error generating content with Anthropic")
	assert.ErrorIs(t, err, stub.err)
}

func TestServiceNoRetryOnClientError(t *testing.T) {
	old := retryBase
	retryBase = time.Hour
	defer func() { retryBase = old }()

	stub := &stubClient{err: fmt.Errorf("Gemini API: %w", &StatusError{Status: 401, Body: "bad key"})}
	svc := NewService(DefaultCatalog(), 3)
	svc.Register(ProviderGoogle, stub)

	_, err := svc.Generate(context.Background(), ProviderGoogle, "gemini-1.5-pro", "s", "u")
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, 1, stub.calls, "a 401 fails the same way every time")
	assert.ErrorIs(t, err, stub.err)
}

func TestServiceRetriesRateLimit(t *testing.T) {
	old := retryBase
	retryBase = time.Millisecond
	defer func() { retryBase = old }()

	stub := &stubClient{err: &StatusError{Status: 429, Body: "quota exceeded"}}
	svc := NewService(DefaultCatalog(), 2)
	svc.Register(ProviderGoogle, stub)

	_, err := svc.Generate(context.Background(), ProviderGoogle, "gemini-1.5-flash", "s", "u")
	require.Error(t, err)
	assert.Equal(t, 3, stub.calls, "rate limits keep getting retried")
}

func TestRetryableStatus(t *testing.T) {
	assert.True(t, retryable(&StatusError{Status: 429}))
	assert.True(t, retryable(&StatusError{Status: 500}))
	assert.True(t, retryable(&StatusError{Status: 503}))
	assert.True(t, retryable(fmt.Errorf("connection reset")))
	assert.False(t, retryable(&StatusError{Status: 400}))
	assert.False(t, retryable(&StatusError{Status: 401}))
	assert.False(t, retryable(&StatusError{Status: 404}))
}

func TestServiceContextCancelDuringBackoff(t *testing.T) {
	old := retryBase
	retryBase = time.Hour
	defer func() { retryBase = old }()

	ctx, cancel := context.WithCancel(context.Background())
	stub := &stubClient{err: fmt.Errorf("boom")}
	svc := NewService(DefaultCatalog(), 3)
	svc.Register(ProviderOpenAI, stub)

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := svc.Generate(ctx, ProviderOpenAI, "gpt-4o", "s", "u")
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.ErrorIs(t, genErr.Unwrap(), context.Canceled)
}
