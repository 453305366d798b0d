package model

import (
	"time"
)

type ConversationTitle struct {
	SessionId string    `gorm:"type:text;primaryKey"`
	Title     string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ConversationTitle) TableName() string {
	return "conversation_titles"
}
