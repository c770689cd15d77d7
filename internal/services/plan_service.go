package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"nightout/internal/config"
	"nightout/internal/kafka"
	"nightout/internal/models"
	"nightout/internal/storage"
)

var (
	ErrVenueNotFound       = errors.New("venue does not exist")
	ErrMissingCity         = errors.New("venue has no city")
	ErrMissingVenue        = errors.New("missing venue id")
	ErrConcurrentPlanWrite = errors.New("plan was written concurrently, retry")
)

// PlanEventAction distinguishes the two kinds of plan activity.
type PlanEventAction string

const (
	PlanEventSet     PlanEventAction = "set"
	PlanEventCleared PlanEventAction = "cleared"
)

// PlanEvent is published to Kafka after a plan write commits. The live
// servers fan it out to clients watching the city; it carries the fact of
// the change, never attendance counts (those are viewer-scoped reads).
type PlanEvent struct {
	Action    PlanEventAction `json:"action"`
	UserID    uint            `json:"userId"`
	VenueID   uint            `json:"venueId,omitempty"`
	City      string          `json:"city"`
	Timestamp time.Time       `json:"timestamp"`
}

// PlanService owns the plan ledger: at most one active plan per user per
// city, maintained by atomic replace-on-write.
type PlanService interface {
	SetPlan(ctx context.Context, userID, venueID uint) (*models.PlanDetails, error)
	ClearPlan(ctx context.Context, userID uint, scope string) error
	ListPlans(ctx context.Context, scope string) ([]*models.PlanDetails, error)
}

type planService struct {
	db          *gorm.DB // for transaction support
	planRepo    storage.PlanRepository
	venueRepo   storage.VenueRepository
	userRepo    storage.UserRepository
	producer    kafka.MessageProducer
	kafkaConfig config.KafkaConfig
}

// NewPlanService creates a new PlanService instance.
func NewPlanService(
	db *gorm.DB,
	planRepo storage.PlanRepository,
	venueRepo storage.VenueRepository,
	userRepo storage.UserRepository,
	producer kafka.MessageProducer,
	cfg config.KafkaConfig,
) PlanService {
	return &planService{
		db:          db,
		planRepo:    planRepo,
		venueRepo:   venueRepo,
		userRepo:    userRepo,
		producer:    producer,
		kafkaConfig: cfg,
	}
}

// SetPlan resolves the venue's city and replaces the user's plan in that
// scope. Delete and insert run in one transaction: a concurrent reader never
// sees the ledger empty for a user who has a plan, and replacements by the
// same user serialize on the deleted row's lock. Two first-time plans with
// no row to lock are ordered by the (user_id, scope) unique index instead,
// so the ledger holds 0 or 1 rows per (user, scope) unconditionally.
func (s *planService) SetPlan(ctx context.Context, userID, venueID uint) (*models.PlanDetails, error) {
	if venueID == 0 {
		return nil, ErrMissingVenue
	}

	venue, err := s.venueRepo.GetByID(ctx, venueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, fmt.Errorf("resolving venue %d: %w", venueID, err)
	}
	if venue.City == "" {
		return nil, ErrMissingCity
	}
	scope := venue.City

	plan := &models.Plan{
		UserID:  userID,
		VenueID: venue.ID,
		Scope:   scope,
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txPlanRepo := storage.NewGormPlanRepository(tx)

		if err := txPlanRepo.DeleteForUserScope(ctx, userID, scope); err != nil {
			return fmt.Errorf("removing previous plan for user %d in %s: %w", userID, scope, err)
		}
		if err := txPlanRepo.Create(ctx, plan); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a first-plan race on the (user_id, scope) index.
				return ErrConcurrentPlanWrite
			}
			return fmt.Errorf("inserting plan for user %d in %s: %w", userID, scope, err)
		}
		return nil
	})
	if txErr != nil {
		// Invariant-bearing write: never swallowed, the caller may retry.
		return nil, txErr
	}

	s.publishPlanEvent(ctx, PlanEvent{
		Action:    PlanEventSet,
		UserID:    userID,
		VenueID:   venue.ID,
		City:      scope,
		Timestamp: time.Now(),
	})

	details := &models.PlanDetails{
		PlanID:    plan.ID,
		UserID:    userID,
		VenueID:   venue.ID,
		VenueName: venue.Name,
		City:      scope,
		CreatedAt: plan.CreatedAt,
	}
	if user, err := s.userRepo.GetByID(ctx, userID); err == nil {
		details.UserName = user.DisplayName
	}
	return details, nil
}

// ClearPlan removes the user's plan in a scope. Clearing an absent plan is a
// no-op, not an error.
func (s *planService) ClearPlan(ctx context.Context, userID uint, scope string) error {
	if err := s.planRepo.DeleteForUserScope(ctx, userID, scope); err != nil {
		return fmt.Errorf("clearing plan for user %d in %s: %w", userID, scope, err)
	}

	s.publishPlanEvent(ctx, PlanEvent{
		Action:    PlanEventCleared,
		UserID:    userID,
		City:      scope,
		Timestamp: time.Now(),
	})
	return nil
}

// ListPlans returns all plans in a city joined with user and venue, newest first.
func (s *planService) ListPlans(ctx context.Context, scope string) ([]*models.PlanDetails, error) {
	plans, err := s.planRepo.ListByScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("listing plans for %s: %w", scope, err)
	}
	if plans == nil {
		plans = []*models.PlanDetails{}
	}
	return plans, nil
}

// publishPlanEvent pushes plan activity to the live feed. The feed is a
// non-critical path: failures are logged and swallowed, the committed write
// stands either way.
func (s *planService) publishPlanEvent(ctx context.Context, event PlanEvent) {
	if s.producer == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshalling plan event for user %d: %v", event.UserID, err)
		return
	}

	key := []byte(event.City)
	if err := s.producer.SendMessage(ctx, s.kafkaConfig.PlanEventsTopic, key, payload); err != nil {
		log.Printf("Error publishing plan event for user %d in %s: %v", event.UserID, event.City, err)
	}
}
