package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatLog struct {
	Id        uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId string            `gorm:"type:text;not null;index"`
	UserQuery string            `gorm:"type:text;not null"`
	Response  string            `gorm:"type:text;not null"`
	Model     string            `gorm:"type:varchar(50);not null"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb;default:'{}'"`
	CreatedAt time.Time         `gorm:"autoCreateTime"`
}

func (ChatLog) TableName() string {
	return "chat_logs"
}
