package unitofwork

import (
	"context"

	"pnm-assistant-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChatLogRepository() contract.ChatLogRepository
	ConversationTitleRepository() contract.ConversationTitleRepository
	DocumentEmbeddingRepository() contract.DocumentEmbeddingRepository
}
