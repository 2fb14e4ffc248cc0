package service

import (
	"strings"

	"github.com/openchat-labs/chat-backend/internal/domain"
)

const (
	titleMaxLen     = 50
	titleCutIndex   = 47
	titleMinWordCut = 20
)

// SynthesizeTitle derives a chat title from the conversation's first
// message. A title is only synthesized from a user turn; anything else
// keeps the default. The cleaned first message is used verbatim up to 50
// characters; longer messages are cut at the last word boundary at or
// before index 47, unless that boundary sits at index 20 or lower, in
// which case the first 47 characters are taken as-is.
func SynthesizeTitle(messages []domain.Message) string {
	if len(messages) == 0 || messages[0].Role != domain.RoleUser {
		return domain.DefaultChatTitle
	}

	// Collapse all whitespace runs, including newlines, to single spaces.
	clean := strings.Join(strings.Fields(messages[0].Content), " ")
	if clean == "" {
		return domain.DefaultChatTitle
	}

	runes := []rune(clean)
	if len(runes) <= titleMaxLen {
		return clean
	}

	cut := -1
	for i := titleCutIndex; i >= 0; i-- {
		if runes[i] == ' ' {
			cut = i
			break
		}
	}
	if cut > titleMinWordCut {
		return string(runes[:cut]) + "..."
	}
	return string(runes[:titleCutIndex]) + "..."
}
