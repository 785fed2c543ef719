package unitofwork

import (
	"context"

	"ai-voicetutor-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	SessionRepository() contract.SessionRepository
	MessageRepository() contract.MessageRepository
}
