// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicBackend generates text through the Anthropic messages API.
type AnthropicBackend struct {
	client *anthropic.Client
}

// NewAnthropicBackend returns a backend authenticated with apiKey.
func NewAnthropicBackend(apiKey string) *AnthropicBackend {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicBackend{client: &client}
}

// Generate sends the composed prompts as a single-turn message. The
// system prompt rides in the dedicated system field.
func (b *AnthropicBackend) Generate(ctx context.Context, req Request) (string, error) {
	resp, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   int64(req.ModelConfig.MaxTokens),
		Temperature: anthropic.Float(req.ModelConfig.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: req.SystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserPrompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("no response from anthropic")
	}
	return strings.TrimSpace(resp.Content[0].Text), nil
}
