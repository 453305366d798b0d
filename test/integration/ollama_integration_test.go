package integration

import (
	"context"
	"log"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pnm-assistant-be/pkg/embedding"
	"pnm-assistant-be/pkg/llm"
	"pnm-assistant-be/pkg/llm/ollama"
)

func ollamaEnv(t *testing.T) (baseURL, chatModel, embedModel string) {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	if os.Getenv("OLLAMA_INTEGRATION") == "" {
		t.Skip("Skipping integration test: OLLAMA_INTEGRATION not set")
	}

	baseURL = os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	chatModel = os.Getenv("LLM_MODEL")
	if chatModel == "" {
		chatModel = "qwen3"
	}
	embedModel = os.Getenv("OLLAMA_EMBEDDING_MODEL")
	if embedModel == "" {
		embedModel = "nomic-embed-text"
	}
	return baseURL, chatModel, embedModel
}

// TestOllamaChatSanitized verifies a live chat round trip and that the
// provider strips reasoning markup before returning.
func TestOllamaChatSanitized(t *testing.T) {
	baseURL, chatModel, _ := ollamaEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	provider := ollama.NewOllamaProvider(baseURL, chatModel)
	response, err := provider.Chat(ctx, []llm.Message{
		{Role: "user", Content: "Reply with one short sentence: what is DOCSIS?"},
	}, llm.WithTemperature(0.2), llm.WithMaxTokens(64))
	require.NoError(t, err)

	t.Logf("Response: %s", response)
	assert.NotEmpty(t, response)
	assert.NotContains(t, response, "<think>")
	assert.NotContains(t, response, "</think>")
	assert.False(t, strings.HasPrefix(response, `"`))
}

// TestOllamaMultiTurnConversation checks that prior turns reach the model.
func TestOllamaMultiTurnConversation(t *testing.T) {
	baseURL, chatModel, _ := ollamaEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	provider := ollama.NewOllamaProvider(baseURL, chatModel)
	response, err := provider.Chat(ctx, []llm.Message{
		{Role: "user", Content: "My name is John"},
		{Role: "assistant", Content: "Nice to meet you, John!"},
		{Role: "user", Content: "What is my name? Answer with the name only."},
	}, llm.WithTemperature(0.0))
	require.NoError(t, err)

	t.Logf("Response: %s", response)
	if !strings.Contains(response, "John") {
		t.Logf("Response may not correctly remember the name: %s", response)
	}
}

// TestOllamaEmbeddingNormalized verifies the embedding provider returns a
// unit-length vector, which the cosine search relies on.
func TestOllamaEmbeddingNormalized(t *testing.T) {
	baseURL, _, embedModel := ollamaEnv(t)

	provider := embedding.NewOllamaProvider(baseURL, embedModel)
	res, err := provider.Generate("Upstream SNR degradation on a DOCSIS plant", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	require.NotEmpty(t, res.Embedding.Values)

	var norm float64
	for _, v := range res.Embedding.Values {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	assert.InDelta(t, 1.0, norm, 0.01)
}
