package entity

import (
	"time"

	"github.com/google/uuid"
)

// User mirrors an externally verified identity. Id equals the verifier's subject
// id; that equality is what keeps sessions and messages referentially sound.
type User struct {
	Id          uuid.UUID
	Email       string
	DisplayName string
	Country     string
	Metadata    map[string]interface{}
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
