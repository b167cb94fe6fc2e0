package llm

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// LocalGenerator talks to a local OpenAI-compatible endpoint (LM Studio,
// Ollama, llama.cpp server). Used as the offline fallback behind the
// hosted generator.
type LocalGenerator struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// LocalConfig holds configuration for the local generator.
type LocalConfig struct {
	BaseURL     string // e.g., "http://localhost:1234/v1"
	Model       string
	MaxTokens   int
	Temperature float64
}

// NewLocalGenerator creates a generator against a local endpoint.
func NewLocalGenerator(cfg LocalConfig) *LocalGenerator {
	clientCfg := openai.DefaultConfig("local")
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 120
	}
	return &LocalGenerator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   maxTokens,
		temperature: float32(cfg.Temperature),
	}
}

// Generate produces a response from the local model. All failures are
// transient: a local endpoint has no quota to exhaust.
func (l *LocalGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := l.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: l.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   l.maxTokens,
		Temperature: l.temperature,
	})
	if err != nil {
		return "", Transient(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
