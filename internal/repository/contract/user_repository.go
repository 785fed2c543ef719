package contract

import (
	"context"

	"ai-voicetutor-be/internal/entity"
	"ai-voicetutor-be/internal/repository/specification"
)

type UserRepository interface {
	// Create inserts the user with its externally assigned id. A unique
	// violation on id or email is returned to the caller undisturbed so the
	// identity sync can recover from races.
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
