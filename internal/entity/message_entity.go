package entity

import (
	"time"

	"github.com/google/uuid"
)

type MessageSender string

const (
	MessageSenderUser MessageSender = "user"
	MessageSenderAi   MessageSender = "ai"
)

// Message is one transcript row. Rows are append-only; Seq breaks ordering ties
// between rows created in the same instant.
type Message struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Sender    MessageSender
	Content   string
	Embedding []float32
	Seq       int64
	CreatedAt time.Time
}
