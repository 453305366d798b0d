package mapper

import (
	"pnm-assistant-be/internal/entity"
	"pnm-assistant-be/internal/model"

	"gorm.io/datatypes"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Turn Mappers

func (m *ChatMapper) ChatTurnToEntity(l *model.ChatLog) *entity.ChatTurn {
	if l == nil {
		return nil
	}

	metadata := map[string]interface{}{}
	for k, v := range l.Metadata {
		metadata[k] = v
	}

	return &entity.ChatTurn{
		Id:        l.Id,
		SessionId: l.SessionId,
		UserQuery: l.UserQuery,
		Response:  l.Response,
		Model:     l.Model,
		Metadata:  metadata,
		CreatedAt: l.CreatedAt,
	}
}

func (m *ChatMapper) ChatTurnToModel(t *entity.ChatTurn) *model.ChatLog {
	if t == nil {
		return nil
	}

	metadata := datatypes.JSONMap{}
	for k, v := range t.Metadata {
		metadata[k] = v
	}

	return &model.ChatLog{
		Id:        t.Id,
		SessionId: t.SessionId,
		UserQuery: t.UserQuery,
		Response:  t.Response,
		Model:     t.Model,
		Metadata:  metadata,
		CreatedAt: t.CreatedAt,
	}
}

// Title Mappers

// ConversationTitleToEntity computes TitleStatus here so callers never
// re-parse the sentinel strings.
func (m *ChatMapper) ConversationTitleToEntity(t *model.ConversationTitle) *entity.ConversationTitle {
	if t == nil {
		return nil
	}

	return &entity.ConversationTitle{
		SessionId: t.SessionId,
		Title:     t.Title,
		Status:    entity.TitleStatusOf(t.Title),
		CreatedAt: t.CreatedAt,
	}
}

func (m *ChatMapper) ConversationTitleToModel(t *entity.ConversationTitle) *model.ConversationTitle {
	if t == nil {
		return nil
	}

	return &model.ConversationTitle{
		SessionId: t.SessionId,
		Title:     t.Title,
		CreatedAt: t.CreatedAt,
	}
}
