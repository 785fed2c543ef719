package mapper

import (
	"encoding/json"

	"ai-voicetutor-be/internal/entity"
	"ai-voicetutor-be/internal/model"

	"gorm.io/datatypes"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}

	var metadata map[string]interface{}
	if len(u.Metadata) > 0 {
		// Ignore malformed metadata rather than failing a read path.
		_ = json.Unmarshal(u.Metadata, &metadata)
	}

	return &entity.User{
		Id:          u.Id,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Country:     u.Country,
		Metadata:    metadata,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}

	var metadata datatypes.JSON
	if u.Metadata != nil {
		if raw, err := json.Marshal(u.Metadata); err == nil {
			metadata = raw
		}
	}

	return &model.User{
		Id:          u.Id,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Country:     u.Country,
		Metadata:    metadata,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (m *UserMapper) ToEntities(users []*model.User) []*entity.User {
	entities := make([]*entity.User, len(users))
	for i, u := range users {
		entities[i] = m.ToEntity(u)
	}
	return entities
}
