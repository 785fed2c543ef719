package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-voicetutor-be/internal/dto"
	"ai-voicetutor-be/internal/repository/specification"
	"ai-voicetutor-be/internal/repository/unitofwork"
	"ai-voicetutor-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService backfills message embeddings off the turn path. Content is
// never touched; only the embedding column is written.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
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

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal embed message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	row, err := uow.MessageRepository().FindOne(ctx, specification.ByID{ID: payload.MessageId})
	if err != nil {
		log.Printf("[ERROR] Failed to load message %s: %v", payload.MessageId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if row == nil {
		log.Printf("[WARN] Message not found, skipping embed: %s", payload.MessageId)
		msg.Ack()
		return
	}
	if len(row.Embedding) > 0 {
		msg.Ack() // Already embedded, duplicate delivery.
		return
	}

	res, err := cs.embeddingProvider.Generate(row.Content, "RETRIEVAL_DOCUMENT")
	if err != nil {
		log.Printf("[ERROR] Failed to generate embedding for message %s: %v", payload.MessageId, err)
		msg.Nack()
		return
	}

	if err := uow.MessageRepository().SetEmbedding(ctx, row.Id, res.Embedding.Values); err != nil {
		log.Printf("[ERROR] Failed to store embedding for message %s: %v", payload.MessageId, err)
		msg.Nack()
		return
	}

	msg.Ack()
}
