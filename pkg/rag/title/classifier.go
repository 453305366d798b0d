package title

import "regexp"

// SmallTalkClassifier decides whether a question is greeting/small talk and
// therefore useless as a title anchor. Pluggable so the vocabulary can be
// extended and tested independently of the scan loop.
type SmallTalkClassifier interface {
	IsSmallTalk(text string) bool
}

// smallTalkPattern is a fixed word-boundary vocabulary, case-insensitive.
var smallTalkPattern = regexp.MustCompile(`(?i)\b(hi|hello|hey|good morning|good evening|how are you|my name is|i am|this is)\b`)

type RegexClassifier struct{}

func NewRegexClassifier() *RegexClassifier {
	return &RegexClassifier{}
}

func (c *RegexClassifier) IsSmallTalk(text string) bool {
	return smallTalkPattern.MatchString(text)
}
