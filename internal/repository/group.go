package repository

import (
	"context"
	"errors"

	"howudoin/internal/models"

	"gorm.io/gorm"
)

// GroupRepository defines the interface for group and membership data operations
type GroupRepository interface {
	CreateWithMembers(ctx context.Context, group *models.Group, memberIDs []uint) error
	GetByID(ctx context.Context, id uint) (*models.Group, error)
	GetUserGroups(ctx context.Context, userID uint) ([]models.Group, error)
	AddMember(ctx context.Context, groupID, userID uint) error
	RemoveMember(ctx context.Context, groupID, userID uint) error
	IsMember(ctx context.Context, groupID, userID uint) (bool, error)
	MemberCount(ctx context.Context, groupID uint) (int64, error)
	GetMembers(ctx context.Context, groupID uint) ([]models.User, error)
	DeleteWithMessages(ctx context.Context, groupID uint) error
	Touch(ctx context.Context, groupID uint) error
}

// groupRepository implements GroupRepository
type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

// CreateWithMembers creates the group and its initial membership rows in one
// transaction so a failed membership insert never leaves a memberless group.
func (r *groupRepository) CreateWithMembers(ctx context.Context, group *models.Group, memberIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		memberships := make([]models.GroupMembership, 0, len(memberIDs))
		for _, id := range memberIDs {
			memberships = append(memberships, models.GroupMembership{GroupID: group.ID, UserID: id})
		}
		return tx.Create(&memberships).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *groupRepository) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).Preload("Members").First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Group", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &group, nil
}

func (r *groupRepository) GetUserGroups(ctx context.Context, userID uint) ([]models.Group, error) {
	var groups []models.Group
	if err := r.db.WithContext(ctx).
		Joins("JOIN group_memberships gm ON groups.id = gm.group_id").
		Where("gm.user_id = ?", userID).
		Preload("Members").
		Find(&groups).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return groups, nil
}

func (r *groupRepository) AddMember(ctx context.Context, groupID, userID uint) error {
	membership := models.GroupMembership{GroupID: groupID, UserID: userID}
	if err := r.db.WithContext(ctx).Create(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewAlreadyMemberError()
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *groupRepository) RemoveMember(ctx context.Context, groupID, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.GroupMembership{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotMemberError()
	}
	return nil
}

func (r *groupRepository) IsMember(ctx context.Context, groupID, userID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.GroupMembership{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *groupRepository) MemberCount(ctx context.Context, groupID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.GroupMembership{}).
		Where("group_id = ?", groupID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *groupRepository) GetMembers(ctx context.Context, groupID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN group_memberships gm ON users.id = gm.user_id").
		Where("gm.group_id = ?", groupID).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// DeleteWithMessages purges the group's messages and memberships before the
// group itself. Everything runs in one transaction: if the purge fails the
// group survives, so no messages are ever orphaned.
func (r *groupRepository) DeleteWithMessages(ctx context.Context, groupID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", groupID).Delete(&models.GroupMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", groupID).Delete(&models.GroupMembership{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, groupID).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Touch bumps the group's updated_at, used after membership changes.
func (r *groupRepository) Touch(ctx context.Context, groupID uint) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Group{}).
		Where("id = ?", groupID).
		Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
