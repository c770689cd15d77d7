package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"nightout/internal/models"
	"nightout/internal/storage"
)

var ErrProfileNotFound = errors.New("user profile does not exist")

// UserService exposes read access to user profiles.
type UserService interface {
	GetUserProfile(ctx context.Context, userID uint) (*models.User, error)
	SearchUsers(ctx context.Context, query string, currentUserID uint) ([]models.User, error)
}

type userService struct {
	userRepo storage.UserRepository
}

// NewUserService creates a new UserService instance.
func NewUserService(userRepo storage.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// GetUserProfile returns the profile for a user ID.
func (s *userService) GetUserProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("loading profile for user %d: %w", userID, err)
	}
	return user, nil
}

// SearchUsers finds users by display name or email, excluding the searcher.
func (s *userService) SearchUsers(ctx context.Context, query string, currentUserID uint) ([]models.User, error) {
	if query == "" {
		return []models.User{}, nil
	}
	users, err := s.userRepo.SearchUsers(ctx, query, currentUserID)
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}
	return users, nil
}
