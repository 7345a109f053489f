package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIGenerator backs the oracle with the OpenAI chat completion API. It
// also serves OpenAI-compatible endpoints via BaseURL.
type OpenAIGenerator struct {
	client    *openai.Client
	modelName string
}

// NewOpenAIGenerator creates a generator configured for the OpenAI backend.
func NewOpenAIGenerator(apiKey, baseURL, model string) (*OpenAIGenerator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		config.BaseURL = baseURL
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAIGenerator{
		client:    openai.NewClientWithConfig(config),
		modelName: model,
	}, nil
}

// GenerateContent sends the prompt as a single user message and returns the
// first choice's content.
func (g *OpenAIGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("openai generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openai api returned no choices")
	}

	output := strings.TrimSpace(resp.Choices[0].Message.Content)
	if output == "" {
		return "", errors.New("openai api returned empty response")
	}

	return output, nil
}

func (g *OpenAIGenerator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}
