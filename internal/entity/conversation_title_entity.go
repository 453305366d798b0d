package entity

import (
	"strings"
	"time"
)

// TitleStatus distinguishes a real, user-visible title from the placeholder
// values. Computed once at the store boundary instead of re-parsing magic
// strings at every call site.
type TitleStatus int

const (
	TitleStatusUnset TitleStatus = iota
	TitleStatusReal
)

type ConversationTitle struct {
	SessionId string
	Title     string
	Status    TitleStatus
	CreatedAt time.Time
}

var sentinelTitles = map[string]struct{}{
	"untitled chat": {},
	"new chat":      {},
}

// TitleStatusOf reports whether a title value names the session for real.
// Empty and sentinel values (case-insensitive, trimmed) count as unset.
func TitleStatusOf(title string) TitleStatus {
	normalized := strings.ToLower(strings.TrimSpace(title))
	if normalized == "" {
		return TitleStatusUnset
	}
	if _, ok := sentinelTitles[normalized]; ok {
		return TitleStatusUnset
	}
	return TitleStatusReal
}
