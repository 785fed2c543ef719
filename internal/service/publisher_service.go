package service

import (
	"encoding/json"

	"ai-voicetutor-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IPublisherService interface {
	PublishMessageEmbed(messageId uuid.UUID) error
}

type publisherService struct {
	pubSub    *gochannel.GoChannel
	topicName string
}

func NewPublisherService(pubSub *gochannel.GoChannel, topicName string) IPublisherService {
	return &publisherService{
		pubSub:    pubSub,
		topicName: topicName,
	}
}

func (ps *publisherService) PublishMessageEmbed(messageId uuid.UUID) error {
	payload, err := json.Marshal(dto.PublishEmbedMessage{MessageId: messageId})
	if err != nil {
		return err
	}
	return ps.pubSub.Publish(ps.topicName, message.NewMessage(watermill.NewUUID(), payload))
}
