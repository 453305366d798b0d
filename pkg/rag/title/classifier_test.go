package title

import "testing"

func TestRegexClassifier(t *testing.T) {
	c := NewRegexClassifier()

	tests := []struct {
		text string
		want bool
	}{
		{"Hello", true},
		{"hi there", true},
		{"HEY", true},
		{"Good morning team", true},
		{"good evening", true},
		{"how are you doing?", true},
		{"My name is Sam", true},
		{"i am new here", true},
		{"This is a test", true},
		{"What is Full Band Capture?", false},
		{"Explain upstream SNR thresholds", false},
		{"Why is the modem offline?", false},
		// word-boundary: substrings must not match
		{"What is history aware retrieval?", false},
		{"Describe the highest split frequency", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := c.IsSmallTalk(tt.text); got != tt.want {
				t.Errorf("IsSmallTalk(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
