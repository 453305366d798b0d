package title

import (
	"context"
	"fmt"
	"strings"

	"pnm-assistant-be/internal/constant"
	"pnm-assistant-be/internal/pkg/logger"
	"pnm-assistant-be/pkg/llm"
	"pnm-assistant-be/pkg/rag"
)

const titlePrompt = `/no_think
Create a short, clear title (max 5 words) that summarizes the user's **technical question** below.
Ignore greetings, names, and small talk.

Question:
%s

Title:`

// Deriver turns accumulated conversation into a short session title once a
// genuine technical question has appeared.
type Deriver struct {
	llmProvider llm.LLMProvider
	classifier  SmallTalkClassifier
	log         logger.ILogger
}

func NewDeriver(llmProvider llm.LLMProvider, classifier SmallTalkClassifier, log logger.ILogger) *Deriver {
	return &Deriver{
		llmProvider: llmProvider,
		classifier:  classifier,
		log:         log,
	}
}

// LastTechnicalQuestion scans the history newest-first and returns the first
// question that is not small talk, or "" when none exists.
func (d *Deriver) LastTechnicalQuestion(history []rag.Turn) string {
	for i := len(history) - 1; i >= 0; i-- {
		question := strings.TrimSpace(history[i].Question)
		if question == "" {
			continue
		}
		if d.classifier.IsSmallTalk(question) {
			continue
		}
		return question
	}
	return ""
}

// GenerateTitle produces a short title for the anchor question. Empty
// history or an all-small-talk history yields the "New Chat" sentinel without
// a generation call; so does an empty model response.
func (d *Deriver) GenerateTitle(ctx context.Context, history []rag.Turn) (string, error) {
	if len(history) == 0 {
		return constant.TitleSentinelNewChat, nil
	}

	anchor := d.LastTechnicalQuestion(history)
	if anchor == "" {
		d.log.Debug("title", "No technical question found, skipping generation", nil)
		return constant.TitleSentinelNewChat, nil
	}

	raw, err := d.llmProvider.Generate(ctx,
		fmt.Sprintf(titlePrompt, anchor),
		llm.WithTemperature(0.3),
		llm.WithTopP(0.6),
		llm.WithMaxTokens(7),
	)
	if err != nil {
		return "", err
	}

	if raw == "" {
		return constant.TitleSentinelNewChat, nil
	}
	return raw, nil
}
