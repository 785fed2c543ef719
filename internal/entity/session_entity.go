package entity

import (
	"time"

	"github.com/google/uuid"
)

type SessionType string

const (
	SessionTypeChat     SessionType = "chat"
	SessionTypeRoleplay SessionType = "roleplay"
)

// Session is a bounded conversation. Language, VoiceId and Persona are written
// once at creation and never recomputed afterwards.
type Session struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	Type       SessionType
	Language   string
	VoiceId    string
	ScenarioId *string
	Persona    string
	CreatedAt  time.Time
}
