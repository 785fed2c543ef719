package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	// Id is the external verifier's subject id, never generated locally.
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Email       string         `gorm:"type:varchar(255);uniqueIndex;not null"`
	DisplayName string         `gorm:"type:varchar(255);not null"`
	Country     string         `gorm:"type:varchar(10);not null;default:'US'"`
	Metadata    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
