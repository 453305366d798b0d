package factory

import (
	"fmt"

	"pnm-assistant-be/pkg/llm"
	"pnm-assistant-be/pkg/llm/ollama"
	"pnm-assistant-be/pkg/llm/openai"
)

type ProviderConfig struct {
	ProviderType     string // "ollama" or "openai"
	ModelName        string
	OllamaBaseURL    string
	OpenAIBaseURL    string
	OpenAIAPIKey     string
	OpenAIAuthHeader string
}

func NewLLMProvider(cfg ProviderConfig) (llm.LLMProvider, error) {
	switch cfg.ProviderType {
	case "ollama":
		baseURL := cfg.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.ModelName), nil
	case "openai":
		return openai.NewOpenAIProvider(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIAuthHeader, cfg.ModelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.ProviderType)
	}
}

// ResolveModel maps a requested chat model to the one the deployment serves.
// gpt-4o variants are accepted by the schema but the reference deployment only
// runs the qwen3 gateway, so anything else falls back to the configured model.
// The response still echoes the requested value.
func ResolveModel(requested, configured string) string {
	if requested == "" || requested != configured {
		return configured
	}
	return requested
}
