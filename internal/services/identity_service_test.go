package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"nightout/internal/models"
	"nightout/internal/storage"
)

func TestSyncIdentity(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIdentityService(storage.NewGormUserRepository(db))
	ctx := context.Background()

	t.Run("first sync creates the user", func(t *testing.T) {
		user, err := svc.SyncIdentity(ctx, "sub-1", "alice@example.com", "Alice", "https://img/alice.png")
		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, "Alice", user.DisplayName)
	})

	t.Run("repeated sync is idempotent on the row", func(t *testing.T) {
		first, err := svc.SyncIdentity(ctx, "sub-2", "bob@example.com", "Bob", "")
		require.NoError(t, err)
		second, err := svc.SyncIdentity(ctx, "sub-2", "bob@example.com", "Bob", "")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		var count int64
		require.NoError(t, db.Model(&models.User{}).Where("email = ?", "bob@example.com").Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("profile fields refresh on every sync", func(t *testing.T) {
		first, err := svc.SyncIdentity(ctx, "sub-3", "carol@example.com", "Carol", "")
		require.NoError(t, err)

		updated, err := svc.SyncIdentity(ctx, "sub-3", "carol@example.com", "Carol R.", "https://img/carol.png")
		require.NoError(t, err)
		assert.Equal(t, first.ID, updated.ID)
		assert.Equal(t, "Carol R.", updated.DisplayName)
		assert.Equal(t, "https://img/carol.png", updated.AvatarURL)

		var stored models.User
		require.NoError(t, db.First(&stored, first.ID).Error)
		assert.Equal(t, "Carol R.", stored.DisplayName)
		assert.Equal(t, "https://img/carol.png", stored.AvatarURL)
	})

	t.Run("missing email is rejected", func(t *testing.T) {
		_, err := svc.SyncIdentity(ctx, "sub-4", "", "Nobody", "")
		assert.ErrorIs(t, err, ErrMissingEmail)
	})
}

// raceUserRepo simulates losing a concurrent first-sync insert race: the
// initial lookup misses, the insert hits the unique email index, and the
// re-read finds the winner's row.
type raceUserRepo struct {
	storage.UserRepository

	winner        *models.User
	lookups       int
	creates       int
	updatedID     uint
	updatedName   string
	updatedAvatar string
}

func (r *raceUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.lookups++
	if r.lookups == 1 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.winner, nil
}

func (r *raceUserRepo) Create(ctx context.Context, user *models.User) error {
	r.creates++
	return gorm.ErrDuplicatedKey
}

func (r *raceUserRepo) UpdateProfile(ctx context.Context, id uint, subject, displayName, avatarURL string) error {
	r.updatedID = id
	r.updatedName = displayName
	r.updatedAvatar = avatarURL
	return nil
}

func TestSyncIdentityLosesInsertRace(t *testing.T) {
	repo := &raceUserRepo{winner: &models.User{
		BaseModel: models.BaseModel{ID: 17},
		Email:     "dana@example.com",
	}}
	svc := NewIdentityService(repo)

	user, err := svc.SyncIdentity(context.Background(), "sub-5", "dana@example.com", "Dana", "https://img/dana.png")
	require.NoError(t, err)

	// No second row: the loser re-reads the winner instead of retrying the insert.
	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, 2, repo.lookups)
	assert.EqualValues(t, 17, user.ID)

	// The winner's row still gets the latest upstream profile.
	assert.EqualValues(t, 17, repo.updatedID)
	assert.Equal(t, "Dana", repo.updatedName)
	assert.Equal(t, "https://img/dana.png", repo.updatedAvatar)
}
