package contract

import (
	"context"

	"pnm-assistant-be/internal/entity"
)

type ConversationTitleRepository interface {
	// Find returns nil without error when the session has no title row.
	Find(ctx context.Context, sessionId string) (*entity.ConversationTitle, error)

	// Upsert inserts or overwrites the single title row for the session.
	Upsert(ctx context.Context, title *entity.ConversationTitle) error
}
