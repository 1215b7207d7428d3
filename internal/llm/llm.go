// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm sends composed prompts to an LLM provider and returns the
// generated text. Providers and their model catalogs are enumerated here;
// adding a provider means adding a backend and catalog entries, nothing
// else changes.
package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
)

// Provider identifiers, as shown to the user and stored in drafts.
const (
	ProviderOpenAI    = "OpenAI"
	ProviderAnthropic = "Anthropic"
	ProviderGoogle    = "Google"
)

// Per-model defaults. Individual catalog entries may override both.
const (
	defaultMaxTokens   = 500
	defaultTemperature = 0.7
)

// ModelConfig carries a model's display name and its own output and
// sampling limits. Limits are per model, not global: different models have
// different caps.
type ModelConfig struct {
	DisplayName string  `json:"display_name" yaml:"display_name"`
	MaxTokens   int     `json:"max_tokens" yaml:"max_tokens"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
}

// Catalog maps provider name to model id to model configuration.
type Catalog map[string]map[string]ModelConfig

// DefaultCatalog returns the built-in provider and model set.
func DefaultCatalog() Catalog {
	return Catalog{
		ProviderOpenAI: {
			"gpt-4o":      {DisplayName: "GPT-4o", MaxTokens: defaultMaxTokens, Temperature: defaultTemperature},
			"gpt-4o-mini": {DisplayName: "GPT-4o mini", MaxTokens: defaultMaxTokens, Temperature: defaultTemperature},
		},
		ProviderAnthropic: {
			"claude-3-7-sonnet-latest": {DisplayName: "Claude 3.7 Sonnet", MaxTokens: defaultMaxTokens, Temperature: defaultTemperature},
			"claude-3-5-haiku-latest":  {DisplayName: "Claude 3.5 Haiku", MaxTokens: defaultMaxTokens, Temperature: defaultTemperature},
			"claude-3-haiku-20240307":  {DisplayName: "Claude 3 Haiku", MaxTokens: defaultMaxTokens, Temperature: defaultTemperature},
		},
		ProviderGoogle: {
			"gemini-1.5-pro":   {DisplayName: "Gemini 1.5 Pro", MaxTokens: defaultMaxTokens, Temperature: defaultTemperature},
			"gemini-1.5-flash": {DisplayName: "Gemini 1.5 Flash", MaxTokens: defaultMaxTokens, Temperature: defaultTemperature},
		},
	}
}

// Providers returns the provider names in sorted order.
func (c Catalog) Providers() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Models returns the model catalog for a provider.
func (c Catalog) Models(provider string) (map[string]ModelConfig, error) {
	models, ok := c[provider]
	if !ok {
		return nil, &ConfigurationError{Provider: provider}
	}
	return models, nil
}

// Lookup resolves a provider/model pair, failing fast on unknown entries
// so a typo never silently falls back to a different model.
func (c Catalog) Lookup(provider, model string) (ModelConfig, error) {
	models, ok := c[provider]
	if !ok {
		return ModelConfig{}, &ConfigurationError{Provider: provider}
	}
	mc, ok := models[model]
	if !ok {
		return ModelConfig{}, &ConfigurationError{Provider: provider, Model: model}
	}
	return mc, nil
}

// ConfigurationError reports an unknown provider or model. It is returned
// before any network call is made.
type ConfigurationError struct {
	Provider string
	Model    string
}

func (e *ConfigurationError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("unknown model %q for provider %s", e.Model, e.Provider)
	}
	return fmt.Sprintf("unknown provider %q", e.Provider)
}

// GenerationError wraps any failure of a provider call. Callers treat it
// as "no content produced"; previously stored content stays untouched.
type GenerationError struct {
	Provider string
	Model    string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("Error generating content with %s %s: %v", e.Provider, e.Model, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// StatusError is an HTTP-level provider failure carrying the response
// status, so the retry loop can tell rate limits from hopeless requests.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
}

// retryable reports whether another attempt could help: rate limits,
// server-side failures, and transport errors. A 4xx other than 429 (bad
// key, malformed request) fails the same way every time, so it is
// surfaced immediately.
func retryable(err error) bool {
	var oaErr *openai.Error
	if errors.As(err, &oaErr) {
		return retryableStatus(oaErr.StatusCode)
	}
	var anErr *anthropic.Error
	if errors.As(err, &anErr) {
		return retryableStatus(anErr.StatusCode)
	}
	var stErr *StatusError
	if errors.As(err, &stErr) {
		return retryableStatus(stErr.Status)
	}
	return true
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// Request is one generation call: the target model plus the two composed
// prompts. ModelConfig is filled in by the Service from the catalog.
type Request struct {
	Provider     string
	Model        string
	SystemPrompt string
	UserPrompt   string
	ModelConfig  ModelConfig
}

// Client is a single provider backend. Tests substitute a stub; the live
// implementations are OpenAIBackend, AnthropicBackend and GeminiBackend.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// retryBase controls the base duration for exponential backoff between
// attempts. Tests override this to avoid real sleeps.
var retryBase = time.Second

// Service validates requests against the catalog and dispatches them to
// the registered provider backend, retrying transient failures.
type Service struct {
	catalog    Catalog
	backends   map[string]Client
	maxRetries int
}

// NewService returns a Service over the given catalog. maxRetries <= 0
// selects the default (2).
func NewService(catalog Catalog, maxRetries int) *Service {
	if maxRetries <= 0 {
		maxRetries = 2
	}
	return &Service{
		catalog:    catalog,
		backends:   make(map[string]Client),
		maxRetries: maxRetries,
	}
}

// Register installs the backend for a provider name.
func (s *Service) Register(provider string, c Client) {
	s.backends[provider] = c
}

// Catalog exposes the provider/model catalog.
func (s *Service) Catalog() Catalog { return s.catalog }

// HasBackend reports whether a backend is registered for provider.
func (s *Service) HasBackend(provider string) bool {
	_, ok := s.backends[provider]
	return ok
}

// Generate sends the composed prompts to the selected provider and model.
// Unknown providers or models fail immediately with a ConfigurationError;
// every other failure is wrapped in a GenerationError after retries are
// exhausted.
func (s *Service) Generate(ctx context.Context, provider, model, systemPrompt, userPrompt string) (string, error) {
	mc, err := s.catalog.Lookup(provider, model)
	if err != nil {
		return "", err
	}
	backend, ok := s.backends[provider]
	if !ok {
		return "", &GenerationError{Provider: provider, Model: model,
			Err: fmt.Errorf("no API key configured for %s", provider)}
	}

	req := Request{
		Provider:     provider,
		Model:        model,
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		ModelConfig:  mc,
	}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * retryBase
			select {
			case <-ctx.Done():
				return "", &GenerationError{Provider: provider, Model: model, Err: ctx.Err()}
			case <-time.After(backoff):
			}
		}
		text, err := backend.Generate(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable(err) {
			break
		}
	}
	return "", &GenerationError{Provider: provider, Model: model, Err: lastErr}
}
