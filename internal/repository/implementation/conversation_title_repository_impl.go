package implementation

import (
	"context"
	"errors"

	"pnm-assistant-be/internal/entity"
	"pnm-assistant-be/internal/mapper"
	"pnm-assistant-be/internal/model"
	"pnm-assistant-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConversationTitleRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewConversationTitleRepository(db *gorm.DB) contract.ConversationTitleRepository {
	return &ConversationTitleRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ConversationTitleRepositoryImpl) Find(ctx context.Context, sessionId string) (*entity.ConversationTitle, error) {
	var m model.ConversationTitle
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ConversationTitleToEntity(&m), nil
}

func (r *ConversationTitleRepositoryImpl) Upsert(ctx context.Context, title *entity.ConversationTitle) error {
	m := r.mapper.ConversationTitleToModel(title)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*title = *r.mapper.ConversationTitleToEntity(m)
	return nil
}
