// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIBackend generates text through the OpenAI chat completions API.
type OpenAIBackend struct {
	client *openai.Client
}

// NewOpenAIBackend returns a backend authenticated with apiKey.
func NewOpenAIBackend(apiKey string) *OpenAIBackend {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIBackend{client: &client}
}

// Generate sends the system and user prompts as a two-message chat
// completion using the request's per-model limits.
func (b *OpenAIBackend) Generate(ctx context.Context, req Request) (string, error) {
	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(req.UserPrompt),
		},
		MaxTokens:   openai.Int(int64(req.ModelConfig.MaxTokens)),
		Temperature: openai.Float(req.ModelConfig.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
