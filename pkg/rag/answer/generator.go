package answer

import (
	"context"

	"pnm-assistant-be/internal/constant"
	"pnm-assistant-be/internal/pkg/apperror"
	"pnm-assistant-be/internal/pkg/logger"
	"pnm-assistant-be/pkg/llm"
	"pnm-assistant-be/pkg/rag"
	"pnm-assistant-be/pkg/rag/prompt"
	"pnm-assistant-be/pkg/rag/retrieval"
)

// Generator produces the user-facing answer from the question, retrieved
// passages, and prior turns. Provider output arrives already sanitized
// (reasoning markup and quotes stripped) per the llm contract.
type Generator struct {
	llmProvider llm.LLMProvider
	log         logger.ILogger
}

func NewGenerator(llmProvider llm.LLMProvider, log logger.ILogger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		log:         log,
	}
}

// Contextualize rewrites the latest question into a standalone one when prior
// history could make it elliptical. Greetings pass through unchanged. A
// rewrite failure falls back to the original question rather than failing the
// request; retrieval quality degrades, correctness does not.
func (g *Generator) Contextualize(ctx context.Context, question string, history []rag.Turn) string {
	if len(history) == 0 {
		return question
	}

	window := rag.LastN(history, 3)
	messages := []llm.Message{{Role: constant.ChatMessageRoleSystem, Content: prompt.BuildContextualizePrompt()}}
	messages = append(messages, prompt.HistoryMessages(window)...)
	messages = append(messages, llm.Message{Role: constant.ChatMessageRoleUser, Content: question})

	rewritten, err := g.llmProvider.Chat(ctx, messages, llm.WithTemperature(0.0))
	if err != nil || rewritten == "" {
		if err != nil {
			g.log.Warn("answer", "Question contextualization failed, using original", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return question
	}
	return rewritten
}

// Generate runs the QA call. The model parameter overrides the provider's
// default when set.
func (g *Generator) Generate(ctx context.Context, question string, passages []retrieval.Passage, history []rag.Turn, model string) (string, error) {
	messages := []llm.Message{{Role: constant.ChatMessageRoleSystem, Content: prompt.BuildSystemPrompt(passages)}}
	messages = append(messages, prompt.HistoryMessages(history)...)
	messages = append(messages, llm.Message{Role: constant.ChatMessageRoleUser, Content: question})

	opts := []llm.Option{
		llm.WithTemperature(0.2),
		llm.WithTopP(0.6),
		llm.WithMaxTokens(256),
	}
	if model != "" {
		opts = append(opts, llm.WithModel(model))
	}

	response, err := g.llmProvider.Chat(ctx, messages, opts...)
	if err != nil {
		return "", apperror.Generation("answer generation failed", err)
	}

	return response, nil
}
