package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatTurn is one user-question/assistant-answer pair. Immutable once
// persisted; ordering within a session is by CreatedAt ascending.
type ChatTurn struct {
	Id        uuid.UUID
	SessionId string
	UserQuery string
	Response  string
	Model     string
	Metadata  map[string]interface{}
	CreatedAt time.Time
}

// SessionOverview is one row of the sidebar session list.
type SessionOverview struct {
	SessionId    string
	Title        string
	LastActivity time.Time
}
