package summary

import (
	"context"
	"fmt"
	"strings"

	"pnm-assistant-be/pkg/llm"
	"pnm-assistant-be/pkg/rag"
)

const DefaultWindow = 10

const summaryPrompt = `Summarize the following conversation in 1-2 clear, concise sentences.
Focus only on the key points discussed. Do not include filler or thoughts.

%s
/no_think`

// Summarizer renders a bounded window of recent turns into a short rolling
// digest. Pure function of its input window; the caller decides where the
// result is stored.
type Summarizer struct {
	llmProvider llm.LLMProvider
	window      int
}

func NewSummarizer(llmProvider llm.LLMProvider, window int) *Summarizer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Summarizer{
		llmProvider: llmProvider,
		window:      window,
	}
}

// Summarize digests the last `window` turns. An empty history yields an empty
// summary without a generation call. Turns with missing fields render as
// empty strings rather than failing.
func (s *Summarizer) Summarize(ctx context.Context, history []rag.Turn) (string, error) {
	window := rag.LastN(history, s.window)
	if len(window) == 0 {
		return "", nil
	}

	result, err := s.llmProvider.Generate(ctx,
		fmt.Sprintf(summaryPrompt, RenderTurns(window)),
		llm.WithTemperature(0.2),
	)
	if err != nil {
		return "", err
	}
	return result, nil
}

// RenderTurns formats turns as a plain transcript blob for the summary prompt.
func RenderTurns(turns []rag.Turn) string {
	var b strings.Builder
	for _, turn := range turns {
		b.WriteString("User: ")
		b.WriteString(turn.Question)
		b.WriteString("\nAssistant: ")
		b.WriteString(turn.Answer)
		b.WriteString("\n")
	}
	return b.String()
}
