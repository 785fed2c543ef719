package dto

import (
	"time"

	"github.com/google/uuid"
)

type StartSessionRequest struct {
	Type       string `json:"type" validate:"omitempty,oneof=chat roleplay"`
	Language   string `json:"language" validate:"omitempty,oneof=en hi mr gu ta"`
	ScenarioId string `json:"scenario_id" validate:"omitempty,oneof=school store home"`
}

type StartSessionResponse struct {
	Id            uuid.UUID `json:"id"`
	Type          string    `json:"type"`
	Language      string    `json:"language"`
	VoiceId       string    `json:"voice_id"`
	ScenarioId    *string   `json:"scenario_id,omitempty"`
	Resumed       bool      `json:"resumed"`
	GreetingText  string    `json:"greeting_text"`
	GreetingAudio []byte    `json:"greeting_audio,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// TurnTextRequest is the JSON body of a text turn. Audio turns arrive as
// multipart form data instead and never hit this struct.
type TurnTextRequest struct {
	Text string `json:"text" validate:"required"`
}

type TurnMessage struct {
	Id        uuid.UUID `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Seq       int64     `json:"seq"`
	CreatedAt time.Time `json:"created_at"`
}

type TurnResponse struct {
	SessionId  uuid.UUID    `json:"session_id"`
	Heard      *TurnMessage `json:"heard,omitempty"`
	Reply      *TurnMessage `json:"reply,omitempty"`
	ReplyAudio []byte       `json:"reply_audio,omitempty"`
	// Notice carries the "didn't hear you" reply for empty input. Nothing is
	// persisted for such turns.
	Notice string `json:"notice,omitempty"`
}

// PublishEmbedMessage is the payload on the embedding backfill topic.
type PublishEmbedMessage struct {
	MessageId uuid.UUID `json:"message_id"`
}

type HistoryMessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Seq       int64     `json:"seq"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionListItemResponse struct {
	Id         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	Language   string    `json:"language"`
	ScenarioId *string   `json:"scenario_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
