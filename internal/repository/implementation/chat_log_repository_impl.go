package implementation

import (
	"context"

	"pnm-assistant-be/internal/entity"
	"pnm-assistant-be/internal/mapper"
	"pnm-assistant-be/internal/model"
	"pnm-assistant-be/internal/repository/contract"
	"pnm-assistant-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ChatLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatLogRepository(db *gorm.DB) contract.ChatLogRepository {
	return &ChatLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatLogRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatLogRepositoryImpl) Create(ctx context.Context, turn *entity.ChatTurn) error {
	m := r.mapper.ChatTurnToModel(turn)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*turn = *r.mapper.ChatTurnToEntity(m)
	return nil
}

func (r *ChatLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatTurn, error) {
	var models []*model.ChatLog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	turns := make([]*entity.ChatTurn, len(models))
	for i, m := range models {
		turns[i] = r.mapper.ChatTurnToEntity(m)
	}
	return turns, nil
}

func (r *ChatLogRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ChatLog{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ChatLogRepositoryImpl) ListSessions(ctx context.Context) ([]*entity.SessionOverview, error) {
	var results []*entity.SessionOverview
	err := r.db.WithContext(ctx).
		Table("chat_logs l").
		Select("l.session_id, COALESCE(t.title, 'Untitled Chat') AS title, MAX(l.created_at) AS last_activity").
		Joins("LEFT JOIN conversation_titles t ON l.session_id = t.session_id").
		Group("l.session_id, t.title").
		Order("last_activity DESC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
