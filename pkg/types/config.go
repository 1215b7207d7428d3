package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network
// requests.
type HTTPConfig struct {
	// Timeout is the per-request timeout. Article fetches and discovery
	// calls are bounded by it so one slow host cannot hang a batch.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the article fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MinParagraphChars drops fragments shorter than this when no
	// article container matched (default 40).
	MinParagraphChars int `json:"min_paragraph_chars" yaml:"min_paragraph_chars"`
}

// GenerationConfig holds settings for LLM calls.
type GenerationConfig struct {
	// MaxRetries is the number of retry attempts for transient API
	// failures (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// PromptFile optionally points at a YAML file overriding the
	// built-in prompt templates.
	PromptFile string `json:"prompt_file,omitempty" yaml:"prompt_file,omitempty"`
}

// DraftConfig holds settings for draft persistence.
type DraftConfig struct {
	// Dir is the directory holding draft JSON files and the index
	// database (default "drafts").
	Dir string `json:"dir" yaml:"dir"`
}

// DiscoveryConfig holds settings for the NewsAPI discovery stage.
type DiscoveryConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against newsapi.org.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// PageSize is the number of articles requested per search (default 20).
	PageSize int `json:"page_size" yaml:"page_size"`

	// SortBy orders results: popularity, relevancy, or publishedAt
	// (default popularity).
	SortBy string `json:"sort_by" yaml:"sort_by"`
}

// AppConfig groups all stage configurations.
type AppConfig struct {
	Fetch      FetchConfig      `json:"fetch" yaml:"fetch"`
	Generation GenerationConfig `json:"generation" yaml:"generation"`
	Drafts     DraftConfig      `json:"drafts" yaml:"drafts"`
	Discovery  DiscoveryConfig  `json:"discovery" yaml:"discovery"`
}
