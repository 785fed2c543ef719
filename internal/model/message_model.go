package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type Message struct {
	Id        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId uuid.UUID       `gorm:"type:uuid;not null;index"`
	Sender    string          `gorm:"type:varchar(10);not null"`
	Content   string          `gorm:"type:text;not null"`
	Embedding *pgvector.Vector `gorm:"type:vector(768)"`
	Seq       int64           `gorm:"autoIncrement;uniqueIndex"` // insertion order tie-breaker
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}

func (Message) TableName() string {
	return "messages"
}
