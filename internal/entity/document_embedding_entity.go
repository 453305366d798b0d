package entity

import (
	"time"

	"github.com/google/uuid"
)

type DocumentEmbedding struct {
	Id             uuid.UUID
	Source         string
	Passage        string
	EmbeddingValue []float32
	ChunkIndex     int
	CreatedAt      time.Time
}
