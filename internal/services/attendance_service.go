package services

import (
	"context"
	"fmt"

	"nightout/internal/models"
	"nightout/internal/storage"
)

// AttendanceService is the read side composing the plan ledger and the
// friendship graph: per-venue totals plus a friends-only count scoped to the
// viewing user. Pure read, no locks, no caching.
type AttendanceService interface {
	Attendance(ctx context.Context, scope string, viewerID uint) ([]*models.VenueAttendance, error)
}

type attendanceService struct {
	planRepo storage.PlanRepository
}

// NewAttendanceService creates a new AttendanceService instance.
func NewAttendanceService(planRepo storage.PlanRepository) AttendanceService {
	return &attendanceService{planRepo: planRepo}
}

// Attendance returns every venue in the city with its total and friends-only
// attendance, ordered by venue name then id. Both counts come out of a
// single statement, so a plan landing mid-read cannot make friendsGoing
// exceed totalGoing, and venues nobody plans to visit still appear with
// zeros.
func (s *attendanceService) Attendance(ctx context.Context, scope string, viewerID uint) ([]*models.VenueAttendance, error) {
	rows, err := s.planRepo.Attendance(ctx, scope, viewerID)
	if err != nil {
		return nil, fmt.Errorf("aggregating attendance for %s: %w", scope, err)
	}
	if rows == nil {
		rows = []*models.VenueAttendance{}
	}
	return rows, nil
}
