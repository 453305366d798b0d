package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// TitleMemo remembers which sessions already hold a real title so the chat
// flow can skip the per-turn title lookup. Safe to memoize because a title
// never transitions back to a sentinel once set.
type TitleMemo struct {
	cache *cache.Cache
}

func NewTitleMemo() *TitleMemo {
	// Default expiration of 1 hour, purge sweep every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &TitleMemo{
		cache: c,
	}
}

func (m *TitleMemo) MarkTitled(sessionId string) {
	m.cache.Set(sessionId, struct{}{}, cache.DefaultExpiration)
}

func (m *TitleMemo) IsTitled(sessionId string) bool {
	_, found := m.cache.Get(sessionId)
	return found
}
