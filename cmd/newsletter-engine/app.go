// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/newsletter-engine/internal/draft"
	"github.com/pdiddy/newsletter-engine/internal/llm"
	"github.com/pdiddy/newsletter-engine/internal/prompt"
	"github.com/pdiddy/newsletter-engine/internal/session"
	"github.com/pdiddy/newsletter-engine/pkg/types"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "Mozilla/5.0 (compatible; newsletter-engine/0.1)"
)

// openStore opens the draft store at the configured drafts directory.
func openStore() (*draft.Store, error) {
	dir, _ := rootCmd.PersistentFlags().GetString("drafts-dir")
	if v := viper.GetString("drafts.dir"); v != "" && dir == "drafts" {
		dir = v
	}
	return draft.NewStore(types.DraftConfig{Dir: dir})
}

// fetchConfig builds the article fetch settings from config defaults.
func fetchConfig() types.FetchConfig {
	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   defaultTimeout,
			UserAgent: defaultUserAgent,
		},
	}
	if v := viper.GetDuration("fetch.timeout"); v > 0 {
		cfg.Timeout = v
	}
	if v := viper.GetString("fetch.user_agent"); v != "" {
		cfg.UserAgent = v
	}
	if v := viper.GetInt("fetch.min_paragraph_chars"); v > 0 {
		cfg.MinParagraphChars = v
	}
	return cfg
}

// newService builds the LLM service with a backend registered for every
// provider that has an API key available.
func newService() *llm.Service {
	svc := llm.NewService(llm.DefaultCatalog(), viper.GetInt("generation.max_retries"))
	if key := secretDefault("openai-api-key", viper.GetString("openai_api_key")); key != "" {
		svc.Register(llm.ProviderOpenAI, llm.NewOpenAIBackend(key))
	}
	if key := secretDefault("anthropic-api-key", viper.GetString("anthropic_api_key")); key != "" {
		svc.Register(llm.ProviderAnthropic, llm.NewAnthropicBackend(key))
	}
	if key := secretDefault("google-api-key", viper.GetString("google_api_key")); key != "" {
		svc.Register(llm.ProviderGoogle, llm.NewGeminiBackend(key))
	}
	return svc
}

// loadPrompts returns the prompt set, applying a YAML override file when
// one is configured.
func loadPrompts() (prompt.Prompts, error) {
	path := viper.GetString("generation.prompt_file")
	if path == "" {
		return prompt.Defaults(), nil
	}
	return prompt.Load(path)
}

// newSession wires a Session over n for CLI use: status lines go to the
// command's error stream.
func newSession(n *types.Newsletter, status func(format string, a ...any)) (*session.Session, error) {
	prompts, err := loadPrompts()
	if err != nil {
		return nil, err
	}
	s := session.New(n, newService())
	s.Prompts = prompts
	s.FetchCfg = fetchConfig()
	s.HTTPClient = &http.Client{Timeout: s.FetchCfg.Timeout}
	s.Status = statusWriter(status)
	return s, nil
}

// statusWriter adapts a printf-style function to an io.Writer.
type statusWriter func(format string, a ...any)

func (w statusWriter) Write(p []byte) (int, error) {
	w("%s", string(p))
	return len(p), nil
}
