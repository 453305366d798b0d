package prompt

import (
	"fmt"
	"strings"

	"pnm-assistant-be/internal/constant"
	"pnm-assistant-be/pkg/llm"
	"pnm-assistant-be/pkg/rag"
	"pnm-assistant-be/pkg/rag/retrieval"
)

// BuildSystemPrompt renders the assistant persona with the retrieved passages
// appended as the grounding context block.
func BuildSystemPrompt(passages []retrieval.Passage) string {
	var prompt strings.Builder

	prompt.WriteString(constant.SystemPromptV1)
	prompt.WriteString("\n\nRetrieved Context:\n")

	if len(passages) == 0 {
		prompt.WriteString("(no reference passages were found for this question)\n")
		return prompt.String()
	}

	for i, p := range passages {
		prompt.WriteString(fmt.Sprintf("\n--- Passage %d (source: %s) ---\n", i+1, p.Source))
		prompt.WriteString(p.Content)
		prompt.WriteString("\n")
	}

	return prompt.String()
}

// HistoryMessages converts stored turns into the alternating user/assistant
// message sequence providers expect.
func HistoryMessages(turns []rag.Turn) []llm.Message {
	messages := make([]llm.Message, 0, len(turns)*2)
	for _, turn := range turns {
		messages = append(messages,
			llm.Message{Role: constant.ChatMessageRoleUser, Content: turn.Question},
			llm.Message{Role: constant.ChatMessageRoleAssistant, Content: turn.Answer},
		)
	}
	return messages
}

// BuildContextualizePrompt asks the model to rewrite the latest question into
// a standalone one. Only used when prior history exists.
func BuildContextualizePrompt() string {
	return constant.ContextualizePromptV1
}
