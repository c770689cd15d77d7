package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"nightout/internal/models"
	"nightout/internal/storage"
)

var ErrMissingEmail = errors.New("identity is missing an email")

// IdentityService reconciles an upstream-verified identity with the local
// user table. It runs once per authentication event; everything else in the
// system consumes the user ID it returns.
type IdentityService interface {
	SyncIdentity(ctx context.Context, subject, email, displayName, avatarURL string) (*models.User, error)
}

type identityService struct {
	userRepo storage.UserRepository
}

// NewIdentityService creates a new IdentityService instance.
func NewIdentityService(userRepo storage.UserRepository) IdentityService {
	return &identityService{userRepo: userRepo}
}

// SyncIdentity upserts the user row for an email. The profile fields are
// refreshed unconditionally so the local mirror always carries the latest
// upstream values. Two concurrent first-time syncs resolve through the
// unique email index: the loser of the insert race re-reads the winner's row
// instead of creating a second one.
func (s *identityService) SyncIdentity(ctx context.Context, subject, email, displayName, avatarURL string) (*models.User, error) {
	if email == "" {
		return nil, ErrMissingEmail
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("looking up user by email: %w", err)
		}

		user = &models.User{
			ExternalSubject: subject,
			Email:           email,
			DisplayName:     displayName,
			AvatarURL:       avatarURL,
		}
		createErr := s.userRepo.Create(ctx, user)
		if createErr == nil {
			return user, nil
		}
		if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("creating user: %w", createErr)
		}

		// Lost the insert race; the row exists now. Fall through to the
		// refresh path against the winner's row.
		log.Printf("identity sync: concurrent first sync for %s, re-reading", email)
		user, err = s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("re-reading user after conflict: %w", err)
		}
	}

	if err := s.userRepo.UpdateProfile(ctx, user.ID, subject, displayName, avatarURL); err != nil {
		return nil, fmt.Errorf("refreshing user profile: %w", err)
	}
	user.ExternalSubject = subject
	user.DisplayName = displayName
	user.AvatarURL = avatarURL
	return user, nil
}
