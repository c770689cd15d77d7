package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"nightout/internal/models"
)

// setupTestDB opens a throwaway sqlite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to open test database")

	require.NoError(t, AutoMigrateTables(db), "failed to migrate test schema")
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, name string) *models.User {
	t.Helper()
	user := &models.User{Email: email, DisplayName: name}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestVenue(t *testing.T, db *gorm.DB, name, city string) *models.Venue {
	t.Helper()
	venue := &models.Venue{Name: name, City: city}
	require.NoError(t, db.Create(venue).Error)
	return venue
}
