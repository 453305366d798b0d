package mapper

import (
	"pnm-assistant-be/internal/entity"
	"pnm-assistant-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type DocumentEmbeddingMapper struct{}

func NewDocumentEmbeddingMapper() *DocumentEmbeddingMapper {
	return &DocumentEmbeddingMapper{}
}

func (m *DocumentEmbeddingMapper) ToEntity(d *model.DocumentEmbedding) *entity.DocumentEmbedding {
	if d == nil {
		return nil
	}

	return &entity.DocumentEmbedding{
		Id:             d.Id,
		Source:         d.Source,
		Passage:        d.Passage,
		EmbeddingValue: d.EmbeddingValue.Slice(),
		ChunkIndex:     d.ChunkIndex,
		CreatedAt:      d.CreatedAt,
	}
}

func (m *DocumentEmbeddingMapper) ToModel(d *entity.DocumentEmbedding) *model.DocumentEmbedding {
	if d == nil {
		return nil
	}

	return &model.DocumentEmbedding{
		Id:             d.Id,
		Source:         d.Source,
		Passage:        d.Passage,
		EmbeddingValue: pgvector.NewVector(d.EmbeddingValue),
		ChunkIndex:     d.ChunkIndex,
		CreatedAt:      d.CreatedAt,
	}
}
