package storage

import (
	"context"

	"gorm.io/gorm"

	"nightout/internal/models"
)

// FriendshipRepository defines the interface for friendship data operations.
type FriendshipRepository interface {
	Create(ctx context.Context, friendship *models.Friendship) error
	GetByID(ctx context.Context, id uint) (*models.Friendship, error)
	UpdateStatus(ctx context.Context, id uint, status models.FriendshipStatus) error
	Delete(ctx context.Context, id uint) error
	GetAcceptedFriendIDs(ctx context.Context, userID uint) ([]uint, error)
	GetPendingForAddressee(ctx context.Context, addresseeID uint) ([]models.Friendship, error)
}

type gormFriendshipRepository struct {
	db *gorm.DB
}

// NewGormFriendshipRepository creates a new GormFriendshipRepository.
func NewGormFriendshipRepository(db *gorm.DB) FriendshipRepository {
	return &gormFriendshipRepository{db: db}
}

// Create inserts a new friendship edge. It assumes EnsureCanonicalPair has
// been called; a second edge for the same pair, in either direction or
// status, fails the unique pair index with gorm.ErrDuplicatedKey.
func (r *gormFriendshipRepository) Create(ctx context.Context, friendship *models.Friendship) error {
	return r.db.WithContext(ctx).Create(friendship).Error
}

// GetByID retrieves a friendship edge by its ID.
func (r *gormFriendshipRepository) GetByID(ctx context.Context, id uint) (*models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.WithContext(ctx).First(&friendship, id).Error
	if err != nil {
		return nil, err
	}
	return &friendship, nil
}

// UpdateStatus sets the status of a friendship edge.
func (r *gormFriendshipRepository) UpdateStatus(ctx context.Context, id uint, status models.FriendshipStatus) error {
	return r.db.WithContext(ctx).Model(&models.Friendship{}).Where("id = ?", id).Update("status", status).Error
}

// Delete removes a friendship edge, freeing the pair for a future request.
func (r *gormFriendshipRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Friendship{}, id).Error
}

// GetAcceptedFriendIDs returns the IDs of all users connected to userID by
// an accepted friendship, whichever side originally sent the request.
func (r *gormFriendshipRepository) GetAcceptedFriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	// The user can sit on either side of the edge, so pluck the opposite
	// column in two passes. Canonical pair uniqueness rules out duplicates.
	var idsAsRequester []uint
	err := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("requester_id = ? AND status = ?", userID, models.FriendshipStatusAccepted).
		Pluck("addressee_id", &idsAsRequester).Error
	if err != nil {
		return nil, err
	}

	var idsAsAddressee []uint
	err = r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("addressee_id = ? AND status = ?", userID, models.FriendshipStatusAccepted).
		Pluck("requester_id", &idsAsAddressee).Error
	if err != nil {
		return nil, err
	}

	return append(idsAsRequester, idsAsAddressee...), nil
}

// GetPendingForAddressee returns all pending requests addressed to a user.
func (r *gormFriendshipRepository) GetPendingForAddressee(ctx context.Context, addresseeID uint) ([]models.Friendship, error) {
	var requests []models.Friendship
	err := r.db.WithContext(ctx).
		Where("addressee_id = ? AND status = ?", addresseeID, models.FriendshipStatusPending).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}
