package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"nightout/internal/models"
)

func TestFriendshipPairUniqueness(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormFriendshipRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com", "Alice")
	bob := createTestUser(t, db, "bob@example.com", "Bob")

	first := &models.Friendship{RequesterID: alice.ID, AddresseeID: bob.ID, Status: models.FriendshipStatusPending}
	first.EnsureCanonicalPair()
	require.NoError(t, repo.Create(ctx, first))

	t.Run("same direction is rejected", func(t *testing.T) {
		dup := &models.Friendship{RequesterID: alice.ID, AddresseeID: bob.ID, Status: models.FriendshipStatusPending}
		dup.EnsureCanonicalPair()
		err := repo.Create(ctx, dup)
		assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "expected ErrDuplicatedKey, got %v", err)
	})

	t.Run("reverse direction is rejected", func(t *testing.T) {
		reverse := &models.Friendship{RequesterID: bob.ID, AddresseeID: alice.ID, Status: models.FriendshipStatusPending}
		reverse.EnsureCanonicalPair()
		err := repo.Create(ctx, reverse)
		assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "expected ErrDuplicatedKey, got %v", err)
	})

	t.Run("accepted status still blocks a new request", func(t *testing.T) {
		require.NoError(t, repo.UpdateStatus(ctx, first.ID, models.FriendshipStatusAccepted))

		again := &models.Friendship{RequesterID: bob.ID, AddresseeID: alice.ID, Status: models.FriendshipStatusPending}
		again.EnsureCanonicalPair()
		err := repo.Create(ctx, again)
		assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "expected ErrDuplicatedKey, got %v", err)
	})

	t.Run("exactly one row exists for the pair", func(t *testing.T) {
		var count int64
		require.NoError(t, db.Model(&models.Friendship{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestGetAcceptedFriendIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormFriendshipRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com", "Alice")
	bob := createTestUser(t, db, "bob@example.com", "Bob")
	carol := createTestUser(t, db, "carol@example.com", "Carol")
	dave := createTestUser(t, db, "dave@example.com", "Dave")

	// alice -> bob accepted, carol -> alice accepted, alice -> dave pending
	edges := []*models.Friendship{
		{RequesterID: alice.ID, AddresseeID: bob.ID, Status: models.FriendshipStatusAccepted},
		{RequesterID: carol.ID, AddresseeID: alice.ID, Status: models.FriendshipStatusAccepted},
		{RequesterID: alice.ID, AddresseeID: dave.ID, Status: models.FriendshipStatusPending},
	}
	for _, e := range edges {
		e.EnsureCanonicalPair()
		require.NoError(t, repo.Create(ctx, e))
	}

	t.Run("both directions resolve, pending excluded", func(t *testing.T) {
		ids, err := repo.GetAcceptedFriendIDs(ctx, alice.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint{bob.ID, carol.ID}, ids)
	})

	t.Run("symmetric from the other side", func(t *testing.T) {
		ids, err := repo.GetAcceptedFriendIDs(ctx, bob.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint{alice.ID}, ids)
	})

	t.Run("no accepted friends", func(t *testing.T) {
		ids, err := repo.GetAcceptedFriendIDs(ctx, dave.ID)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}

func TestGetPendingForAddressee(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormFriendshipRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com", "Alice")
	bob := createTestUser(t, db, "bob@example.com", "Bob")
	carol := createTestUser(t, db, "carol@example.com", "Carol")

	in := &models.Friendship{RequesterID: bob.ID, AddresseeID: alice.ID, Status: models.FriendshipStatusPending}
	in.EnsureCanonicalPair()
	require.NoError(t, repo.Create(ctx, in))

	out := &models.Friendship{RequesterID: alice.ID, AddresseeID: carol.ID, Status: models.FriendshipStatusPending}
	out.EnsureCanonicalPair()
	require.NoError(t, repo.Create(ctx, out))

	pending, err := repo.GetPendingForAddressee(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1, "outgoing requests must not appear")
	assert.Equal(t, bob.ID, pending[0].RequesterID)
}
