// Package service contains the business-rule layer: the relationship engine,
// the group membership manager, and the messaging gatekeeper.
package service

import (
	"context"

	"howudoin/internal/models"
	"howudoin/internal/repository"
)

// FriendService owns the friend-request lifecycle and the derived friendship
// and block predicates. All symmetric checks go through the canonical pair-key
// lookup, so both orderings of a pair resolve to the same edge.
type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
}

// NewFriendService returns a new FriendService.
func NewFriendService(friendRepo repository.FriendRepository, userRepo repository.UserRepository) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
	}
}

// SendFriendRequest sends a friend request to the target user. A pending or
// accepted edge in either direction blocks a duplicate; a blocked edge refuses
// the request; a previously rejected edge is re-oriented back to pending so
// the single-edge-per-pair invariant holds.
func (s *FriendService) SendFriendRequest(ctx context.Context, userID, targetUserID uint) (*models.Friendship, error) {
	if userID == targetUserID {
		return nil, models.NewSelfReferenceError("Cannot send friend request to yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, targetUserID); err != nil {
		return nil, err
	}

	existing, err := s.friendRepo.GetEdgeBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case models.FriendshipStatusAccepted:
			return nil, models.NewAlreadyFriendsError()
		case models.FriendshipStatusPending:
			if existing.RequesterID == userID {
				return nil, models.NewAlreadyExistsError("Friend request already sent")
			}
			return nil, models.NewAlreadyExistsError("You already have a pending friend request from this user")
		case models.FriendshipStatusBlocked:
			return nil, models.NewForbiddenError("Cannot send a friend request to this user")
		case models.FriendshipStatusRejected:
			// Fresh request after a rejection reuses the edge
			existing.RequesterID = userID
			existing.AddresseeID = targetUserID
			existing.Status = models.FriendshipStatusPending
			if saveErr := s.friendRepo.Save(ctx, existing); saveErr != nil {
				return nil, saveErr
			}
			return s.friendRepo.GetByID(ctx, existing.ID)
		}
	}

	friendship := &models.Friendship{
		RequesterID: userID,
		AddresseeID: targetUserID,
		Status:      models.FriendshipStatusPending,
	}
	if err := s.friendRepo.Create(ctx, friendship); err != nil {
		return nil, err
	}

	return s.friendRepo.GetByID(ctx, friendship.ID)
}

// GetPendingRequests returns pending friend requests addressed to the user.
func (s *FriendService) GetPendingRequests(ctx context.Context, userID uint) ([]models.Friendship, error) {
	return s.friendRepo.GetPendingRequests(ctx, userID)
}

// GetSentRequests returns pending friend requests sent by the user.
func (s *FriendService) GetSentRequests(ctx context.Context, userID uint) ([]models.Friendship, error) {
	return s.friendRepo.GetSentRequests(ctx, userID)
}

// AcceptFriendRequest accepts a pending friend request. Only the addressee may
// accept, and only while the request is pending.
func (s *FriendService) AcceptFriendRequest(ctx context.Context, userID, requestID uint) (*models.Friendship, error) {
	friendship, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if friendship.AddresseeID != userID {
		return nil, models.NewForbiddenError("You can only accept friend requests sent to you")
	}
	if friendship.Status != models.FriendshipStatusPending {
		return nil, models.NewInvalidStateError("Friend request is not pending")
	}

	if err := s.friendRepo.UpdateStatus(ctx, requestID, models.FriendshipStatusAccepted); err != nil {
		return nil, err
	}

	return s.friendRepo.GetByID(ctx, requestID)
}

// RejectFriendRequest rejects a pending friend request. The edge is kept with
// rejected status; a later SendFriendRequest may revive it.
func (s *FriendService) RejectFriendRequest(ctx context.Context, userID, requestID uint) (*models.Friendship, error) {
	friendship, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if friendship.AddresseeID != userID {
		return nil, models.NewForbiddenError("You can only reject friend requests sent to you")
	}
	if friendship.Status != models.FriendshipStatusPending {
		return nil, models.NewInvalidStateError("Friend request is not pending")
	}

	if err := s.friendRepo.UpdateStatus(ctx, requestID, models.FriendshipStatusRejected); err != nil {
		return nil, err
	}

	return s.friendRepo.GetByID(ctx, requestID)
}

// CancelFriendRequest deletes a pending request. Only the requester may cancel.
func (s *FriendService) CancelFriendRequest(ctx context.Context, userID, requestID uint) error {
	friendship, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}

	if friendship.RequesterID != userID {
		return models.NewForbiddenError("You can only cancel friend requests you sent")
	}
	if friendship.Status != models.FriendshipStatusPending {
		return models.NewInvalidStateError("Friend request is not pending")
	}

	return s.friendRepo.Delete(ctx, requestID)
}

// AreFriends reports whether an accepted edge exists between the two users,
// in either direction.
func (s *FriendService) AreFriends(ctx context.Context, userA, userB uint) (bool, error) {
	edge, err := s.friendRepo.GetEdgeBetweenUsers(ctx, userA, userB)
	if err != nil {
		return false, err
	}
	return edge != nil && edge.Status == models.FriendshipStatusAccepted, nil
}

// IsBlocked reports whether a blocked edge exists between the two users,
// in either direction.
func (s *FriendService) IsBlocked(ctx context.Context, userA, userB uint) (bool, error) {
	edge, err := s.friendRepo.GetEdgeBetweenUsers(ctx, userA, userB)
	if err != nil {
		return false, err
	}
	return edge != nil && edge.Status == models.FriendshipStatusBlocked, nil
}

// BlockUser upserts the edge between the two users to blocked. An existing
// edge in either direction is reused; no prior relationship is required.
func (s *FriendService) BlockUser(ctx context.Context, userID, blockedUserID uint) (*models.Friendship, error) {
	if userID == blockedUserID {
		return nil, models.NewSelfReferenceError("Cannot block yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, blockedUserID); err != nil {
		return nil, err
	}

	edge, err := s.friendRepo.GetEdgeBetweenUsers(ctx, userID, blockedUserID)
	if err != nil {
		return nil, err
	}
	if edge == nil {
		edge = &models.Friendship{
			RequesterID: userID,
			AddresseeID: blockedUserID,
		}
	}
	edge.Status = models.FriendshipStatusBlocked
	if err := s.friendRepo.Save(ctx, edge); err != nil {
		return nil, err
	}
	return s.friendRepo.GetByID(ctx, edge.ID)
}

// GetBlockedUsers returns the blocked edges the user initiated or is part of.
func (s *FriendService) GetBlockedUsers(ctx context.Context, userID uint) ([]models.Friendship, error) {
	return s.friendRepo.GetEdgesWithStatus(ctx, userID, models.FriendshipStatusBlocked)
}

// GetFriends returns the list of friends for the user.
func (s *FriendService) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	return s.friendRepo.GetFriends(ctx, userID)
}

// GetFriendshipStatus returns the relationship status between two users.
func (s *FriendService) GetFriendshipStatus(ctx context.Context, userID, targetUserID uint) (string, uint, *models.Friendship, error) {
	if _, err := s.userRepo.GetByID(ctx, targetUserID); err != nil {
		return "", 0, nil, err
	}

	friendship, err := s.friendRepo.GetEdgeBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return "", 0, nil, err
	}

	status := "none"
	var requestID uint
	if friendship != nil {
		switch friendship.Status {
		case models.FriendshipStatusAccepted:
			status = "friends"
		case models.FriendshipStatusPending:
			requestID = friendship.ID
			if friendship.RequesterID == userID {
				status = "pending_sent"
			} else {
				status = "pending_received"
			}
		case models.FriendshipStatusRejected:
			// A rejected edge reads as no relationship
			status = "none"
		default:
			status = string(friendship.Status)
		}
	}

	return status, requestID, friendship, nil
}

// RemoveFriend removes the accepted friendship between two users.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, targetUserID uint) (*models.Friendship, error) {
	friendship, err := s.friendRepo.GetEdgeBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return nil, err
	}
	if friendship == nil || friendship.Status != models.FriendshipStatusAccepted {
		return nil, models.NewNotFoundError("Friendship", targetUserID)
	}

	if err := s.friendRepo.RemoveFriendship(ctx, userID, targetUserID); err != nil {
		return nil, err
	}
	return friendship, nil
}
