package contract

import (
	"context"

	"ai-voicetutor-be/internal/entity"
	"ai-voicetutor-be/internal/repository/specification"

	"github.com/google/uuid"
)

// MessageRepository is append-only. Rows are never updated or deleted once
// written; SetEmbedding is the single exception and touches only the
// embedding column.
type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	SetEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
