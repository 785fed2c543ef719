package model

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID `gorm:"type:uuid;not null;index"` // User ownership for data isolation
	Type       string    `gorm:"type:varchar(20);not null;default:'chat';index"`
	Language   string    `gorm:"type:varchar(10);not null"`
	VoiceId    string    `gorm:"type:varchar(100);not null"`
	ScenarioId *string   `gorm:"type:varchar(100)"`
	Persona    string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (Session) TableName() string {
	return "sessions"
}
