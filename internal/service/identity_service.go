package service

import (
	"context"

	"ai-voicetutor-be/internal/constant"
	"ai-voicetutor-be/internal/entity"
	"ai-voicetutor-be/internal/pkg/apperrors"
	"ai-voicetutor-be/internal/pkg/logger"
	"ai-voicetutor-be/internal/repository/specification"
	"ai-voicetutor-be/internal/repository/unitofwork"
	"ai-voicetutor-be/pkg/authverify"
	"ai-voicetutor-be/pkg/database"
)

type IIdentityService interface {
	EnsureUserExists(ctx context.Context, identity authverify.Identity) (*entity.User, error)
}

type identityService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewIdentityService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IIdentityService {
	return &identityService{
		uowFactory: uowFactory,
		logger:     log,
	}
}

// EnsureUserExists guarantees a local user row matching the verified identity.
// The verified subject id is forced as the primary key so sessions and
// messages always reference the identity the verifier asserted. Concurrent
// first requests race on the insert; the loser re-reads the winner's row
// instead of failing.
func (s *identityService) EnsureUserExists(ctx context.Context, identity authverify.Identity) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	users := uow.UserRepository()

	existing, err := users.FindOne(ctx, specification.ByID{ID: identity.Subject})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindIdentitySync, "failed to look up user", err)
	}
	if existing != nil {
		return existing, nil
	}

	displayName := identity.DisplayName()
	if displayName == "" {
		displayName = constant.FallbackDisplayName
	}

	user := &entity.User{
		Id:          identity.Subject,
		Email:       identity.Email,
		DisplayName: displayName,
		Country:     constant.DefaultCountry,
		Metadata:    identity.Metadata,
	}

	createErr := users.Create(ctx, user)
	if createErr == nil {
		s.logger.Info("identity", "Created user from verified identity", map[string]interface{}{
			"user_id": user.Id.String(),
		})
		return user, nil
	}

	if !database.IsUniqueViolation(createErr) {
		return nil, apperrors.Wrap(apperrors.KindIdentitySync, "failed to create user", createErr)
	}

	// Lost the race, or the email already belongs to a row with a different
	// id. Re-read the canonical row: first by id, then by email.
	existing, err = users.FindOne(ctx, specification.ByID{ID: identity.Subject})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindIdentitySync, "failed to re-read user after conflict", err)
	}
	if existing != nil {
		return existing, nil
	}

	existing, err = users.FindOne(ctx, specification.ByEmail{Email: identity.Email})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindIdentitySync, "failed to re-read user by email", err)
	}
	if existing != nil {
		return existing, nil
	}

	return nil, apperrors.Wrap(apperrors.KindIdentitySync, "user vanished after uniqueness conflict", createErr)
}
