package llm

import (
	"regexp"
	"strings"
)

// thinkPattern matches reasoning spans emitted by models like qwen3,
// including multi-line spans and a stray unclosed opening tag.
var thinkPattern = regexp.MustCompile(`(?s)<think>.*?</think>`)

// Sanitize enforces the output contract shared by every provider: reasoning
// markup is removed, whitespace trimmed, and a surrounding quote pair
// stripped. Applied uniformly so call sites never do their own text surgery.
func Sanitize(raw string) string {
	cleaned := thinkPattern.ReplaceAllString(raw, "")

	// Models occasionally leak bare tags without a matching pair.
	cleaned = strings.ReplaceAll(cleaned, "<think>", "")
	cleaned = strings.ReplaceAll(cleaned, "</think>", "")

	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.Trim(cleaned, `"`)
	return strings.TrimSpace(cleaned)
}
