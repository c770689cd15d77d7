package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nightout/internal/storage"
)

// TestAttendanceAfterFriendshipAndPlans walks the full flow: users become
// friends, set plans, and the venue list reflects both counters from the
// viewer's perspective.
func TestAttendanceAfterFriendshipAndPlans(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	friendSvc := NewFriendshipService(db, storage.NewGormUserRepository(db), storage.NewGormFriendshipRepository(db))
	planSvc, _ := newPlanTestService(t, db)
	attendanceSvc := NewAttendanceService(storage.NewGormPlanRepository(db))

	alice := createUser(t, db, "alice@example.com", "Alice")
	bob := createUser(t, db, "bob@example.com", "Bob")
	stranger := createUser(t, db, "zed@example.com", "Zed")

	watt := createVenue(t, db, "40 Watt Club", "athens-ga")
	theatre := createVenue(t, db, "Georgia Theatre", "athens-ga")

	friendship, err := friendSvc.RequestFriendship(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, friendSvc.AcceptFriendship(ctx, friendship.ID, bob.ID))

	_, err = planSvc.SetPlan(ctx, bob.ID, watt.ID)
	require.NoError(t, err)
	_, err = planSvc.SetPlan(ctx, stranger.ID, watt.ID)
	require.NoError(t, err)

	t.Run("viewer sees totals and friend counts", func(t *testing.T) {
		venues, err := attendanceSvc.Attendance(ctx, "athens-ga", alice.ID)
		require.NoError(t, err)
		require.Len(t, venues, 2)

		require.Equal(t, "40 Watt Club", venues[0].Name)
		assert.Equal(t, 2, venues[0].TotalGoing)
		assert.Equal(t, 1, venues[0].FriendsGoing)

		require.Equal(t, "Georgia Theatre", venues[1].Name)
		assert.Equal(t, 0, venues[1].TotalGoing)
		assert.Equal(t, 0, venues[1].FriendsGoing)
	})

	t.Run("stranger sees totals but no friends", func(t *testing.T) {
		venues, err := attendanceSvc.Attendance(ctx, "athens-ga", stranger.ID)
		require.NoError(t, err)
		require.Len(t, venues, 2)
		assert.Equal(t, 2, venues[0].TotalGoing)
		assert.Equal(t, 0, venues[0].FriendsGoing)
	})

	t.Run("replacing a plan moves the counts", func(t *testing.T) {
		_, err := planSvc.SetPlan(ctx, bob.ID, theatre.ID)
		require.NoError(t, err)

		venues, err := attendanceSvc.Attendance(ctx, "athens-ga", alice.ID)
		require.NoError(t, err)
		require.Len(t, venues, 2)

		assert.Equal(t, 1, venues[0].TotalGoing) // only the stranger remains
		assert.Equal(t, 0, venues[0].FriendsGoing)
		assert.Equal(t, 1, venues[1].TotalGoing)
		assert.Equal(t, 1, venues[1].FriendsGoing)
	})

	t.Run("unknown city yields an empty list", func(t *testing.T) {
		venues, err := attendanceSvc.Attendance(ctx, "nowhere", alice.ID)
		require.NoError(t, err)
		assert.Empty(t, venues)
	})
}
