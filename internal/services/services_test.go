package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"nightout/internal/config"
	"nightout/internal/models"
	"nightout/internal/storage"
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

	require.NoError(t, storage.AutoMigrateTables(db), "failed to migrate test schema")
	return db
}

// fakeProducer records published messages in place of a Kafka broker.
type fakeProducer struct {
	mu       sync.Mutex
	messages []fakeMessage
	failWith error
}

type fakeMessage struct {
	topic   string
	key     string
	payload []byte
}

func (p *fakeProducer) SendMessage(ctx context.Context, topic string, key []byte, payload []byte) error {
	if p.failWith != nil {
		return p.failWith
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, fakeMessage{topic: topic, key: string(key), payload: payload})
	return nil
}

func (p *fakeProducer) Close() {}

func (p *fakeProducer) sent() []fakeMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]fakeMessage(nil), p.messages...)
}

var testKafkaCfg = config.KafkaConfig{PlanEventsTopic: "test-plan-events"}

func createUser(t *testing.T, db *gorm.DB, email, name string) *models.User {
	t.Helper()
	user := &models.User{Email: email, DisplayName: name}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createVenue(t *testing.T, db *gorm.DB, name, city string) *models.Venue {
	t.Helper()
	venue := &models.Venue{Name: name, City: city}
	require.NoError(t, db.Create(venue).Error)
	return venue
}
