package openai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"pnm-assistant-be/pkg/llm"
)

// OpenAIProvider talks to any OpenAI-compatible chat endpoint. The reference
// deployment points it at a hosted qwen3 gateway via a custom base URL and a
// raw Authorization header.
type OpenAIProvider struct {
	client    *goopenai.Client
	modelName string
}

var _ llm.LLMProvider = &OpenAIProvider{}

// headerTransport injects a raw Authorization header for gateways that do not
// accept the Bearer token go-openai sets from the api key.
type headerTransport struct {
	base   http.RoundTripper
	header string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.header != "" {
		req.Header.Set("Authorization", t.header)
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

func NewOpenAIProvider(baseURL, apiKey, authHeader, modelName string) *OpenAIProvider {
	clientConfig := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout:   120 * time.Second,
		Transport: &headerTransport{header: authHeader},
	}

	return &OpenAIProvider{
		client:    goopenai.NewClientWithConfig(clientConfig),
		modelName: modelName,
	}
}

func (p *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := &llm.Options{
		Temperature: 0.7,
	}
	for _, opt := range opts {
		opt(options)
	}

	messages := make([]goopenai.ChatCompletionMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = goopenai.ChatMessageRoleAssistant
		}
		messages[i] = goopenai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		}
	}

	model := p.modelName
	if options.Model != "" {
		model = options.Model
	}

	req := goopenai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: float32(options.Temperature),
	}
	if options.TopP > 0 {
		req.TopP = float32(options.TopP)
	}
	if options.MaxTokens > 0 {
		req.MaxTokens = options.MaxTokens
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	return llm.Sanitize(resp.Choices[0].Message.Content), nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}
