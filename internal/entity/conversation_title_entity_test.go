package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleStatusOf(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  TitleStatus
	}{
		{"empty", "", TitleStatusUnset},
		{"whitespace only", "   ", TitleStatusUnset},
		{"untitled sentinel", "Untitled Chat", TitleStatusUnset},
		{"new chat sentinel", "New Chat", TitleStatusUnset},
		{"sentinel different case", "NEW CHAT", TitleStatusUnset},
		{"sentinel padded", "  new chat  ", TitleStatusUnset},
		{"real title", "Upstream SNR Troubleshooting", TitleStatusReal},
		{"real title containing sentinel words", "New Chat Features in DOCSIS", TitleStatusReal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TitleStatusOf(tt.title))
		})
	}
}
