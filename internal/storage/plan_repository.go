package storage

import (
	"context"

	"gorm.io/gorm"

	"nightout/internal/models"
)

// PlanRepository defines the interface for plan ledger operations.
// Replace and the surrounding venue lookup are composed inside a transaction
// by the service layer; the repository methods stay single-statement.
type PlanRepository interface {
	Create(ctx context.Context, plan *models.Plan) error
	DeleteForUserScope(ctx context.Context, userID uint, scope string) error
	ListByScope(ctx context.Context, scope string) ([]*models.PlanDetails, error)
	Attendance(ctx context.Context, scope string, viewerID uint) ([]*models.VenueAttendance, error)
}

type gormPlanRepository struct {
	db *gorm.DB
}

// NewGormPlanRepository creates a new GORM-based PlanRepository.
func NewGormPlanRepository(db *gorm.DB) PlanRepository {
	return &gormPlanRepository{db: db}
}

// Create inserts a new plan row. The (user_id, scope) unique index rejects a
// second concurrent first-time plan with gorm.ErrDuplicatedKey.
func (r *gormPlanRepository) Create(ctx context.Context, plan *models.Plan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

// DeleteForUserScope removes the user's plan in a scope if one exists.
// Deleting zero rows is not an error.
func (r *gormPlanRepository) DeleteForUserScope(ctx context.Context, userID uint, scope string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND scope = ?", userID, scope).
		Delete(&models.Plan{}).Error
}

// ListByScope returns all plans in a city joined with their user and venue,
// newest first.
func (r *gormPlanRepository) ListByScope(ctx context.Context, scope string) ([]*models.PlanDetails, error) {
	var details []*models.PlanDetails
	err := r.db.WithContext(ctx).
		Model(&models.Plan{}).
		Select(`plans.id AS plan_id,
			users.id AS user_id,
			users.display_name AS user_name,
			venues.id AS venue_id,
			venues.name AS venue_name,
			venues.city AS city,
			plans.created_at AS created_at`).
		Joins("JOIN users ON users.id = plans.user_id").
		Joins("JOIN venues ON venues.id = plans.venue_id").
		Where("plans.scope = ?", scope).
		Order("plans.created_at DESC").
		Scan(&details).Error
	return details, err
}

// Attendance computes, for every venue in a city, the number of users with a
// current plan there and how many of those are accepted friends of the
// viewer. One statement, so both counts come from the same snapshot and the
// left joins keep zero-plan venues in the result.
func (r *gormPlanRepository) Attendance(ctx context.Context, scope string, viewerID uint) ([]*models.VenueAttendance, error) {
	var rows []*models.VenueAttendance
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			v.id,
			v.name,
			v.city,
			v.lat,
			v.lng,
			COALESCE(t.total_going, 0) AS total_going,
			COALESCE(f.friends_going, 0) AS friends_going
		FROM venues v
		LEFT JOIN (
			SELECT venue_id, COUNT(DISTINCT user_id) AS total_going
			FROM plans
			GROUP BY venue_id
		) t ON t.venue_id = v.id
		LEFT JOIN (
			SELECT p.venue_id, COUNT(DISTINCT p.user_id) AS friends_going
			FROM plans p
			JOIN (
				SELECT
					CASE
						WHEN requester_id = ? THEN addressee_id
						ELSE requester_id
					END AS friend_id
				FROM friendships
				WHERE status = ?
					AND (requester_id = ? OR addressee_id = ?)
			) fr ON fr.friend_id = p.user_id
			GROUP BY p.venue_id
		) f ON f.venue_id = v.id
		WHERE v.city = ?
		ORDER BY v.name ASC, v.id ASC`,
		viewerID, models.FriendshipStatusAccepted, viewerID, viewerID, scope).
		Scan(&rows).Error
	return rows, err
}
