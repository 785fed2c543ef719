package service

import (
	"context"
	"strings"

	"ai-voicetutor-be/internal/pkg/logger"
	"ai-voicetutor-be/internal/websocket"
	"ai-voicetutor-be/pkg/events"
	pktNats "ai-voicetutor-be/pkg/nats"

	"github.com/google/uuid"
)

type IProgressService interface {
	Start() error
}

// progressService bridges the NATS event stream to the websocket progress
// feed. Progress accounting itself lives in a downstream consumer; this only
// mirrors events to the owning user's sockets.
type progressService struct {
	subscriber *pktNats.Subscriber
	hub        *websocket.Hub
	logger     logger.ILogger
}

func NewProgressService(subscriber *pktNats.Subscriber, hub *websocket.Hub, log logger.ILogger) IProgressService {
	return &progressService{
		subscriber: subscriber,
		hub:        hub,
		logger:     log,
	}
}

func (s *progressService) Start() error {
	return s.subscriber.Subscribe("events.>", "progress-feed", s.forward)
}

func (s *progressService) forward(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	rawUserId, _ := payload["user_id"].(string)
	userId, err := uuid.Parse(rawUserId)
	if err != nil {
		// Events without an owner have no feed to land on.
		return nil
	}

	sessionId, _ := payload["session_id"].(string)

	s.hub.Send(userId, websocket.ProgressUpdate{
		Event:     eventName(event.EventType()),
		SessionId: sessionId,
		Data:      payload,
	})
	return nil
}

// eventName strips the NATS subject prefix, leaving the bare event code.
func eventName(subject string) string {
	if i := strings.LastIndex(subject, "."); i >= 0 {
		return subject[i+1:]
	}
	return subject
}
