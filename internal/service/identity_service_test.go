package service

import (
	"context"
	"errors"
	"testing"

	"ai-voicetutor-be/internal/constant"
	"ai-voicetutor-be/internal/entity"
	"ai-voicetutor-be/internal/pkg/apperrors"
	"ai-voicetutor-be/internal/repository/specification"
	"ai-voicetutor-be/pkg/authverify"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// errDuplicate is what the fake user repo returns on an id or email clash,
// mirroring the translated driver error the real repository surfaces.
var errDuplicate = gorm.ErrDuplicatedKey

func newIdentityFixture() (IIdentityService, *fakeFactory) {
	factory := newFakeFactory()
	return NewIdentityService(factory, nopLogger{}), factory
}

func TestEnsureUserExistsCreates(t *testing.T) {
	svc, factory := newIdentityFixture()
	subject := uuid.New()

	user, err := svc.EnsureUserExists(context.Background(), authverify.Identity{
		Subject: subject,
		Email:   "asha@example.com",
		Metadata: map[string]interface{}{
			"full_name": "Asha Patel",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, subject, user.Id)
	assert.Equal(t, "Asha Patel", user.DisplayName)
	assert.Equal(t, constant.DefaultCountry, user.Country)
	require.Len(t, factory.uow.users.rows, 1)
	assert.Equal(t, subject, factory.uow.users.rows[0].Id)
}

func TestEnsureUserExistsNameFromEmail(t *testing.T) {
	svc, _ := newIdentityFixture()

	user, err := svc.EnsureUserExists(context.Background(), authverify.Identity{
		Subject: uuid.New(),
		Email:   "ravi@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "ravi", user.DisplayName)
}

func TestEnsureUserExistsFallbackName(t *testing.T) {
	svc, _ := newIdentityFixture()

	user, err := svc.EnsureUserExists(context.Background(), authverify.Identity{
		Subject: uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, constant.FallbackDisplayName, user.DisplayName)
}

func TestEnsureUserExistsReturnsExisting(t *testing.T) {
	svc, factory := newIdentityFixture()
	subject := uuid.New()
	factory.uow.users.rows = append(factory.uow.users.rows, &entity.User{
		Id:          subject,
		Email:       "existing@example.com",
		DisplayName: "Existing",
	})

	user, err := svc.EnsureUserExists(context.Background(), authverify.Identity{
		Subject: subject,
		Email:   "existing@example.com",
		Metadata: map[string]interface{}{
			"full_name": "Someone Else",
		},
	})
	require.NoError(t, err)

	// The stored row wins; metadata from the token never overwrites it here.
	assert.Equal(t, "Existing", user.DisplayName)
	assert.Len(t, factory.uow.users.rows, 1)
}

func TestEnsureUserExistsRecoversByEmail(t *testing.T) {
	svc, factory := newIdentityFixture()
	existing := &entity.User{
		Id:          uuid.New(),
		Email:       "shared@example.com",
		DisplayName: "First In",
	}
	factory.uow.users.rows = append(factory.uow.users.rows, existing)

	// Same email, different subject id: the insert collides and the sync
	// falls back to the canonical row.
	user, err := svc.EnsureUserExists(context.Background(), authverify.Identity{
		Subject: uuid.New(),
		Email:   "shared@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, existing.Id, user.Id)
	assert.Len(t, factory.uow.users.rows, 1)
}

// racingUserRepo simulates losing an insert race: the first lookup misses
// even though another request commits the row before our insert lands.
type racingUserRepo struct {
	*fakeUserRepo
	missedOnce bool
	winner     *entity.User
}

func (r *racingUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	if !r.missedOnce {
		r.missedOnce = true
		return nil, nil
	}
	return r.fakeUserRepo.FindOne(ctx, specs...)
}

func (r *racingUserRepo) Create(ctx context.Context, user *entity.User) error {
	// The winner's row commits between our lookup and our insert.
	clone := *r.winner
	r.fakeUserRepo.rows = append(r.fakeUserRepo.rows, &clone)
	return r.fakeUserRepo.Create(ctx, user)
}

func TestEnsureUserExistsLosesInsertRace(t *testing.T) {
	subject := uuid.New()
	winner := &entity.User{
		Id:          subject,
		Email:       "racer@example.com",
		DisplayName: "Winner",
	}

	factory := newFakeFactory()
	factory.uow.userOverride = &racingUserRepo{fakeUserRepo: factory.uow.users, winner: winner}

	svc := NewIdentityService(factory, nopLogger{})

	user, err := svc.EnsureUserExists(context.Background(), authverify.Identity{
		Subject: subject,
		Email:   "racer@example.com",
	})
	require.NoError(t, err)

	// Exactly one row survives and the loser sees the winner's data.
	assert.Equal(t, subject, user.Id)
	assert.Equal(t, "Winner", user.DisplayName)
	assert.Len(t, factory.uow.users.rows, 1)
}

func TestEnsureUserExistsHardFailure(t *testing.T) {
	svc, factory := newIdentityFixture()
	factory.uow.users.createErr = errors.New("connection reset")

	_, err := svc.EnsureUserExists(context.Background(), authverify.Identity{
		Subject: uuid.New(),
		Email:   "anyone@example.com",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindIdentitySync, apperrors.KindOf(err))
}

func TestEnsureUserExistsVanishedAfterConflict(t *testing.T) {
	svc, factory := newIdentityFixture()
	factory.uow.users.createErr = errDuplicate

	// The insert reports a conflict but neither re-read finds a row. That is
	// a real inconsistency and must surface, not loop.
	_, err := svc.EnsureUserExists(context.Background(), authverify.Identity{
		Subject: uuid.New(),
		Email:   "ghost@example.com",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindIdentitySync, apperrors.KindOf(err))
}
