package service

import (
	"context"

	"howudoin/internal/models"
	"howudoin/internal/repository"
)

// GroupService owns group creation, membership, and the member-based
// authorization guard used by group messaging.
type GroupService struct {
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
}

// NewGroupService returns a new GroupService.
func NewGroupService(groupRepo repository.GroupRepository, userRepo repository.UserRepository) *GroupService {
	return &GroupService{
		groupRepo: groupRepo,
		userRepo:  userRepo,
	}
}

// CreateGroup creates a group whose member set is memberIDs plus the creator.
// Every referenced user must exist. The creator appearing in memberIDs is not
// an error; the set is de-duplicated.
func (s *GroupService) CreateGroup(ctx context.Context, name string, creatorID uint, memberIDs []uint) (*models.Group, error) {
	if name == "" {
		return nil, models.NewValidationError("Group name is required")
	}

	if _, err := s.userRepo.GetByID(ctx, creatorID); err != nil {
		return nil, err
	}

	// Normalize to a duplicate-free set including the creator
	seen := map[uint]bool{creatorID: true}
	members := []uint{creatorID}
	for _, id := range memberIDs {
		if seen[id] {
			continue
		}
		if _, err := s.userRepo.GetByID(ctx, id); err != nil {
			return nil, err
		}
		seen[id] = true
		members = append(members, id)
	}

	group := &models.Group{
		Name:      name,
		CreatorID: creatorID,
	}
	if err := s.groupRepo.CreateWithMembers(ctx, group, members); err != nil {
		return nil, err
	}

	return s.groupRepo.GetByID(ctx, group.ID)
}

// AddMember inserts the user into the group's member set.
func (s *GroupService) AddMember(ctx context.Context, groupID, userID uint) (*models.Group, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	member, err := s.groupRepo.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if member {
		return nil, models.NewAlreadyMemberError()
	}

	if err := s.groupRepo.AddMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	if err := s.groupRepo.Touch(ctx, groupID); err != nil {
		return nil, err
	}

	return s.groupRepo.GetByID(ctx, groupID)
}

// RemoveMember removes the user from the group's member set. Removal is
// rejected when it would leave the group empty.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, userID uint) (*models.Group, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, err
	}

	member, err := s.groupRepo.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, models.NewNotMemberError()
	}

	count, err := s.groupRepo.MemberCount(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if count <= 1 {
		return nil, models.NewLastMemberError()
	}

	if err := s.groupRepo.RemoveMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	if err := s.groupRepo.Touch(ctx, groupID); err != nil {
		return nil, err
	}

	return s.groupRepo.GetByID(ctx, groupID)
}

// IsMember reports whether the user belongs to the group.
func (s *GroupService) IsMember(ctx context.Context, groupID, userID uint) (bool, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		return false, err
	}
	return s.groupRepo.IsMember(ctx, groupID, userID)
}

// RequireMember is the authorization guard for group-scoped actions.
func (s *GroupService) RequireMember(ctx context.Context, groupID, userID uint) error {
	member, err := s.IsMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !member {
		return models.NewForbiddenError("Only group members can perform this action")
	}
	return nil
}

// GetGroup returns the group after verifying the requester is a member.
func (s *GroupService) GetGroup(ctx context.Context, groupID, userID uint) (*models.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := s.RequireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return group, nil
}

// GetMembers returns the group's member list; members only.
func (s *GroupService) GetMembers(ctx context.Context, groupID, userID uint) ([]models.User, error) {
	if err := s.RequireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.groupRepo.GetMembers(ctx, groupID)
}

// GetUserGroups returns every group the user belongs to.
func (s *GroupService) GetUserGroups(ctx context.Context, userID uint) ([]models.Group, error) {
	return s.groupRepo.GetUserGroups(ctx, userID)
}

// DeleteGroup deletes the group and all its messages. Creator only. The purge
// and the group removal are atomic: a failed purge keeps the group.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID, userID uint) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group.CreatorID != userID {
		return models.NewForbiddenError("Only the group creator can delete the group")
	}
	return s.groupRepo.DeleteWithMessages(ctx, groupID)
}
