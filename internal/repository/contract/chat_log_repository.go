package contract

import (
	"context"

	"pnm-assistant-be/internal/entity"
	"pnm-assistant-be/internal/repository/specification"
)

type ChatLogRepository interface {
	Create(ctx context.Context, turn *entity.ChatTurn) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatTurn, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// ListSessions aggregates distinct sessions with their title (or the
	// "Untitled Chat" default) ordered by last activity, newest first.
	ListSessions(ctx context.Context) ([]*entity.SessionOverview, error)
}
