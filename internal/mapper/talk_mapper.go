package mapper

import (
	"ai-voicetutor-be/internal/entity"
	"ai-voicetutor-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type TalkMapper struct{}

func NewTalkMapper() *TalkMapper {
	return &TalkMapper{}
}

// Session Mappers

func (m *TalkMapper) SessionToEntity(s *model.Session) *entity.Session {
	if s == nil {
		return nil
	}

	return &entity.Session{
		Id:         s.Id,
		UserId:     s.UserId,
		Type:       entity.SessionType(s.Type),
		Language:   s.Language,
		VoiceId:    s.VoiceId,
		ScenarioId: s.ScenarioId,
		Persona:    s.Persona,
		CreatedAt:  s.CreatedAt,
	}
}

func (m *TalkMapper) SessionToModel(s *entity.Session) *model.Session {
	if s == nil {
		return nil
	}

	return &model.Session{
		Id:         s.Id,
		UserId:     s.UserId,
		Type:       string(s.Type),
		Language:   s.Language,
		VoiceId:    s.VoiceId,
		ScenarioId: s.ScenarioId,
		Persona:    s.Persona,
		CreatedAt:  s.CreatedAt,
	}
}

// Message Mappers

func (m *TalkMapper) MessageToEntity(msg *model.Message) *entity.Message {
	if msg == nil {
		return nil
	}

	var embedding []float32
	if msg.Embedding != nil {
		embedding = msg.Embedding.Slice()
	}

	return &entity.Message{
		Id:        msg.Id,
		SessionId: msg.SessionId,
		Sender:    entity.MessageSender(msg.Sender),
		Content:   msg.Content,
		Embedding: embedding,
		Seq:       msg.Seq,
		CreatedAt: msg.CreatedAt,
	}
}

func (m *TalkMapper) MessageToModel(msg *entity.Message) *model.Message {
	if msg == nil {
		return nil
	}

	var embedding *pgvector.Vector
	if len(msg.Embedding) > 0 {
		v := pgvector.NewVector(msg.Embedding)
		embedding = &v
	}

	return &model.Message{
		Id:        msg.Id,
		SessionId: msg.SessionId,
		Sender:    string(msg.Sender),
		Content:   msg.Content,
		Embedding: embedding,
		Seq:       msg.Seq,
		CreatedAt: msg.CreatedAt,
	}
}
