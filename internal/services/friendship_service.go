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

var (
	ErrSelfRequest         = errors.New("cannot send a friend request to yourself")
	ErrUserNotFound        = errors.New("user does not exist")
	ErrDuplicateFriendship = errors.New("a friendship already exists for this pair")
	ErrFriendshipNotFound  = errors.New("friend request does not exist")
	ErrNotAddressee        = errors.New("you are not the addressee of this friend request")
	ErrNotPending          = errors.New("friend request is not pending")
)

// FriendshipService owns the friendship graph: directed request edges with a
// status, resolving into an undirected set of accepted friends.
type FriendshipService interface {
	RequestFriendship(ctx context.Context, requesterID, addresseeID uint) (*models.Friendship, error)
	AcceptFriendship(ctx context.Context, friendshipID, actingUserID uint) error
	RejectFriendship(ctx context.Context, friendshipID, actingUserID uint) error
	FriendsOf(ctx context.Context, userID uint) ([]uint, error)
	ListFriends(ctx context.Context, userID uint) ([]*models.UserBasicInfo, error)
	ListPendingRequests(ctx context.Context, userID uint) ([]*models.FriendshipWithRequester, error)
}

type friendshipService struct {
	db             *gorm.DB // for transaction support
	userRepo       storage.UserRepository
	friendshipRepo storage.FriendshipRepository
}

// NewFriendshipService creates a new FriendshipService instance.
func NewFriendshipService(
	db *gorm.DB,
	userRepo storage.UserRepository,
	friendshipRepo storage.FriendshipRepository,
) FriendshipService {
	return &friendshipService{
		db:             db,
		userRepo:       userRepo,
		friendshipRepo: friendshipRepo,
	}
}

// RequestFriendship creates a pending edge from requester to addressee.
// Duplicate detection is not a read-then-write: the insert itself hits the
// canonical pair unique index, so two concurrent requests for the same pair
// (in either direction) leave exactly one row.
func (s *friendshipService) RequestFriendship(ctx context.Context, requesterID, addresseeID uint) (*models.Friendship, error) {
	if requesterID == addresseeID {
		return nil, ErrSelfRequest
	}

	if _, err := s.userRepo.GetByID(ctx, addresseeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("checking addressee %d: %w", addresseeID, err)
	}

	friendship := &models.Friendship{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      models.FriendshipStatusPending,
	}
	friendship.EnsureCanonicalPair()

	if err := s.friendshipRepo.Create(ctx, friendship); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateFriendship
		}
		return nil, fmt.Errorf("creating friend request %d -> %d: %w", requesterID, addresseeID, err)
	}

	log.Printf("Friend request %d created: %d -> %d", friendship.ID, requesterID, addresseeID)
	return friendship, nil
}

// AcceptFriendship transitions a pending edge to accepted. Only the
// addressee may accept, and only while the edge is still pending.
func (s *friendshipService) AcceptFriendship(ctx context.Context, friendshipID, actingUserID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := storage.NewGormFriendshipRepository(tx)

		friendship, err := txRepo.GetByID(ctx, friendshipID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFriendshipNotFound
			}
			return fmt.Errorf("retrieving friend request %d: %w", friendshipID, err)
		}

		if friendship.AddresseeID != actingUserID {
			return ErrNotAddressee
		}
		if friendship.Status != models.FriendshipStatusPending {
			return ErrNotPending
		}

		if err := txRepo.UpdateStatus(ctx, friendshipID, models.FriendshipStatusAccepted); err != nil {
			return fmt.Errorf("accepting friend request %d: %w", friendshipID, err)
		}

		log.Printf("Friend request %d accepted by user %d", friendshipID, actingUserID)
		return nil
	})
}

// RejectFriendship removes a pending edge. The row is deleted rather than
// kept with a rejected status so the pair is free to be requested again.
func (s *friendshipService) RejectFriendship(ctx context.Context, friendshipID, actingUserID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := storage.NewGormFriendshipRepository(tx)

		friendship, err := txRepo.GetByID(ctx, friendshipID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFriendshipNotFound
			}
			return fmt.Errorf("retrieving friend request %d: %w", friendshipID, err)
		}

		if friendship.AddresseeID != actingUserID {
			return ErrNotAddressee
		}
		if friendship.Status != models.FriendshipStatusPending {
			return ErrNotPending
		}

		if err := txRepo.Delete(ctx, friendshipID); err != nil {
			return fmt.Errorf("rejecting friend request %d: %w", friendshipID, err)
		}

		log.Printf("Friend request %d rejected by user %d", friendshipID, actingUserID)
		return nil
	})
}

// FriendsOf returns the IDs of all accepted friends of a user. Symmetric:
// the original request direction does not matter.
func (s *friendshipService) FriendsOf(ctx context.Context, userID uint) ([]uint, error) {
	friendIDs, err := s.friendshipRepo.GetAcceptedFriendIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolving friends of user %d: %w", userID, err)
	}
	return friendIDs, nil
}

// ListFriends returns basic profile info for all accepted friends of a user.
func (s *friendshipService) ListFriends(ctx context.Context, userID uint) ([]*models.UserBasicInfo, error) {
	friendIDs, err := s.FriendsOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(friendIDs) == 0 {
		return []*models.UserBasicInfo{}, nil
	}

	friends, err := s.userRepo.GetMultipleBasicInfoByIDs(ctx, friendIDs)
	if err != nil {
		return nil, fmt.Errorf("loading friend profiles for user %d: %w", userID, err)
	}
	return friends, nil
}

// ListPendingRequests returns the incoming pending requests for a user,
// enriched with each requester's basic profile.
func (s *friendshipService) ListPendingRequests(ctx context.Context, userID uint) ([]*models.FriendshipWithRequester, error) {
	pending, err := s.friendshipRepo.GetPendingForAddressee(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching pending friend requests for user %d: %w", userID, err)
	}

	result := make([]*models.FriendshipWithRequester, 0, len(pending))
	for _, req := range pending {
		requester, err := s.userRepo.GetBasicInfoByID(ctx, req.RequesterID)
		if err != nil {
			log.Printf("Error fetching requester info for user %d (request %d): %v", req.RequesterID, req.ID, err)
			continue
		}
		result = append(result, &models.FriendshipWithRequester{
			Friendship: req,
			Requester:  requester,
		})
	}
	return result, nil
}
