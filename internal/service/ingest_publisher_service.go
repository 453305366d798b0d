package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"pnm-assistant-be/internal/dto"
)

type IIngestPublisherService interface {
	Publish(ctx context.Context, request *dto.IngestDocumentRequest) error
}

type ingestPublisherService struct {
	pubSub    *gochannel.GoChannel
	topicName string
}

func NewIngestPublisherService(topicName string, pubSub *gochannel.GoChannel) IIngestPublisherService {
	return &ingestPublisherService{
		pubSub:    pubSub,
		topicName: topicName,
	}
}

func (ps *ingestPublisherService) Publish(ctx context.Context, request *dto.IngestDocumentRequest) error {
	payload := dto.PublishIngestDocumentMessage{
		Source:  request.Source,
		Content: request.Content,
	}

	msgJson, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), msgJson)
	msg.SetContext(ctx)

	return ps.pubSub.Publish(ps.topicName, msg)
}
