package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"pnm-assistant-be/internal/dto"
	"pnm-assistant-be/internal/entity"
	"pnm-assistant-be/internal/pkg/logger"
	"pnm-assistant-be/internal/repository/unitofwork"
	"pnm-assistant-be/pkg/embedding"
	"pnm-assistant-be/pkg/utils"
)

type IIngestConsumerService interface {
	Consume(ctx context.Context) error
}

type ingestConsumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	log               logger.ILogger
}

func NewIngestConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IIngestConsumerService {
	return &ingestConsumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		log:               log,
	}
}

func (cs *ingestConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *ingestConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("ingest", "Failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		// Ack invalid messages to prevent infinite retry.
		msg.Ack()
		return
	}

	cs.log.Info("ingest", "Processing document", map[string]interface{}{
		"source":         payload.Source,
		"content_length": len(payload.Content),
	})

	// ChunkSize 1500 chars with 200 overlap keeps chunks well under the
	// embedding model's context limit.
	chunks := utils.SplitText(payload.Content, 1500, 200)

	var newEmbeddings []*entity.DocumentEmbedding
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			cs.log.Error("ingest", "Failed to generate chunk embedding", map[string]interface{}{
				"source": payload.Source,
				"chunk":  i,
				"error":  err.Error(),
			})
			msg.Nack()
			return
		}

		newEmbeddings = append(newEmbeddings, &entity.DocumentEmbedding{
			Id:             uuid.New(),
			Source:         payload.Source,
			Passage:        chunk,
			EmbeddingValue: res.Embedding.Values,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		})
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		cs.log.Error("ingest", "Failed to begin transaction", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Nack()
		return
	}
	defer uow.Rollback()

	// Re-ingesting a source replaces its chunks wholesale.
	if err := uow.DocumentEmbeddingRepository().DeleteBySource(ctx, payload.Source); err != nil {
		cs.log.Error("ingest", "Failed to delete old embeddings", map[string]interface{}{
			"source": payload.Source,
			"error":  err.Error(),
		})
		msg.Nack()
		return
	}

	if err := uow.DocumentEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
		cs.log.Error("ingest", "Failed to create embeddings", map[string]interface{}{
			"source": payload.Source,
			"error":  err.Error(),
		})
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		cs.log.Error("ingest", "Failed to commit transaction", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Nack()
		return
	}

	cs.log.Info("ingest", "Document processed", map[string]interface{}{
		"source": payload.Source,
		"chunks": len(newEmbeddings),
	})
	msg.Ack()
}
