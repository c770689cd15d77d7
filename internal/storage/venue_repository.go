package storage

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nightout/internal/models"
)

// VenueRepository defines read access to venue reference data, plus the
// upsert the seed command uses to load it.
type VenueRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Venue, error)
	ListByCity(ctx context.Context, city string) ([]models.Venue, error)
	Upsert(ctx context.Context, venue *models.Venue) error
}

type gormVenueRepository struct {
	db *gorm.DB
}

// NewGormVenueRepository creates a new GORM-based VenueRepository.
func NewGormVenueRepository(db *gorm.DB) VenueRepository {
	return &gormVenueRepository{db: db}
}

// GetByID retrieves a venue by its ID.
func (r *gormVenueRepository) GetByID(ctx context.Context, id uint) (*models.Venue, error) {
	var venue models.Venue
	err := r.db.WithContext(ctx).First(&venue, id).Error
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

// ListByCity returns all venues in a city, name ascending.
func (r *gormVenueRepository) ListByCity(ctx context.Context, city string) ([]models.Venue, error) {
	var venues []models.Venue
	err := r.db.WithContext(ctx).
		Where("city = ?", city).
		Order("name ASC, id ASC").
		Find(&venues).Error
	return venues, err
}

// Upsert creates the venue or, when a row with the same ID exists, refreshes
// its reference fields. Used by the seed command only.
func (r *gormVenueRepository) Upsert(ctx context.Context, venue *models.Venue) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "city", "lat", "lng", "updated_at"}),
		}).
		Create(venue).Error
}
