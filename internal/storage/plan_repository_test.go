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

func TestPlanUserScopeUniqueness(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPlanRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com", "Alice")
	v1 := createTestVenue(t, db, "40 Watt Club", "athens-ga")
	v2 := createTestVenue(t, db, "Georgia Theatre", "athens-ga")

	require.NoError(t, repo.Create(ctx, &models.Plan{UserID: alice.ID, VenueID: v1.ID, Scope: "athens-ga"}))

	t.Run("second insert without delete hits the unique index", func(t *testing.T) {
		err := repo.Create(ctx, &models.Plan{UserID: alice.ID, VenueID: v2.ID, Scope: "athens-ga"})
		assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "expected ErrDuplicatedKey, got %v", err)
	})

	t.Run("delete then insert replaces the plan", func(t *testing.T) {
		require.NoError(t, repo.DeleteForUserScope(ctx, alice.ID, "athens-ga"))
		require.NoError(t, repo.Create(ctx, &models.Plan{UserID: alice.ID, VenueID: v2.ID, Scope: "athens-ga"}))

		var plans []models.Plan
		require.NoError(t, db.Where("user_id = ?", alice.ID).Find(&plans).Error)
		require.Len(t, plans, 1)
		assert.Equal(t, v2.ID, plans[0].VenueID)
	})

	t.Run("delete with no row is not an error", func(t *testing.T) {
		bob := createTestUser(t, db, "bob@example.com", "Bob")
		assert.NoError(t, repo.DeleteForUserScope(ctx, bob.ID, "athens-ga"))
	})
}

func TestListByScope(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPlanRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com", "Alice")
	bob := createTestUser(t, db, "bob@example.com", "Bob")
	watt := createTestVenue(t, db, "40 Watt Club", "athens-ga")
	theatre := createTestVenue(t, db, "Georgia Theatre", "athens-ga")
	elsewhere := createTestVenue(t, db, "The Earl", "atlanta-ga")

	require.NoError(t, repo.Create(ctx, &models.Plan{UserID: alice.ID, VenueID: watt.ID, Scope: "athens-ga"}))
	require.NoError(t, repo.Create(ctx, &models.Plan{UserID: bob.ID, VenueID: theatre.ID, Scope: "athens-ga"}))
	require.NoError(t, repo.Create(ctx, &models.Plan{UserID: alice.ID, VenueID: elsewhere.ID, Scope: "atlanta-ga"}))

	details, err := repo.ListByScope(ctx, "athens-ga")
	require.NoError(t, err)
	require.Len(t, details, 2, "other cities must not leak in")

	for _, d := range details {
		assert.Equal(t, "athens-ga", d.City)
		assert.NotEmpty(t, d.VenueName)
		assert.NotEmpty(t, d.UserName)
	}
}

func TestAttendanceQuery(t *testing.T) {
	db := setupTestDB(t)
	planRepo := NewGormPlanRepository(db)
	friendshipRepo := NewGormFriendshipRepository(db)
	ctx := context.Background()

	viewer := createTestUser(t, db, "viewer@example.com", "Viewer")
	friend := createTestUser(t, db, "friend@example.com", "Friend")
	stranger := createTestUser(t, db, "stranger@example.com", "Stranger")

	watt := createTestVenue(t, db, "40 Watt Club", "athens-ga")
	theatre := createTestVenue(t, db, "Georgia Theatre", "athens-ga")
	_ = createTestVenue(t, db, "Flicker Theatre & Bar", "athens-ga")

	// friend requested the viewer; direction must not matter
	edge := &models.Friendship{RequesterID: friend.ID, AddresseeID: viewer.ID, Status: models.FriendshipStatusAccepted}
	edge.EnsureCanonicalPair()
	require.NoError(t, friendshipRepo.Create(ctx, edge))

	require.NoError(t, planRepo.Create(ctx, &models.Plan{UserID: friend.ID, VenueID: watt.ID, Scope: "athens-ga"}))
	require.NoError(t, planRepo.Create(ctx, &models.Plan{UserID: stranger.ID, VenueID: watt.ID, Scope: "athens-ga"}))
	require.NoError(t, planRepo.Create(ctx, &models.Plan{UserID: viewer.ID, VenueID: theatre.ID, Scope: "athens-ga"}))

	rows, err := planRepo.Attendance(ctx, "athens-ga", viewer.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3, "every venue in the city must appear")

	t.Run("ordered by name", func(t *testing.T) {
		assert.Equal(t, "40 Watt Club", rows[0].Name)
		assert.Equal(t, "Flicker Theatre & Bar", rows[1].Name)
		assert.Equal(t, "Georgia Theatre", rows[2].Name)
	})

	t.Run("totals count everyone, friends only friends", func(t *testing.T) {
		watt := rows[0]
		assert.Equal(t, 2, watt.TotalGoing)
		assert.Equal(t, 1, watt.FriendsGoing)
	})

	t.Run("zero-plan venue appears with zeros", func(t *testing.T) {
		flicker := rows[1]
		assert.Equal(t, 0, flicker.TotalGoing)
		assert.Equal(t, 0, flicker.FriendsGoing)
	})

	t.Run("viewer is not their own friend", func(t *testing.T) {
		theatre := rows[2]
		assert.Equal(t, 1, theatre.TotalGoing)
		assert.Equal(t, 0, theatre.FriendsGoing)
	})

	t.Run("friendsGoing never exceeds totalGoing", func(t *testing.T) {
		for _, row := range rows {
			assert.LessOrEqual(t, row.FriendsGoing, row.TotalGoing, "venue %s", row.Name)
		}
	})

	t.Run("unrelated viewer sees zero friends everywhere", func(t *testing.T) {
		rows, err := planRepo.Attendance(ctx, "athens-ga", stranger.ID)
		require.NoError(t, err)
		for _, row := range rows {
			assert.Equal(t, 0, row.FriendsGoing, "venue %s", row.Name)
		}
		assert.Equal(t, 2, rows[0].TotalGoing)
	})
}
