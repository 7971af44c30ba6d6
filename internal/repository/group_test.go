package repository

import (
	"context"
	"errors"
	"testing"

	"howudoin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGroupRepository(db)
	ctx := context.Background()
	users := createTestUsers(t, db, 4)

	group := &models.Group{Name: "weekenders", CreatorID: users[0].ID}
	require.NoError(t, repo.CreateWithMembers(ctx, group, []uint{users[0].ID, users[1].ID}))

	t.Run("CreateWithMembers", func(t *testing.T) {
		assert.NotZero(t, group.ID)

		count, err := repo.MemberCount(ctx, group.ID)
		assert.NoError(t, err)
		assert.EqualValues(t, 2, count)
	})

	t.Run("GetByIDPreloadsMembers", func(t *testing.T) {
		fetched, err := repo.GetByID(ctx, group.ID)
		assert.NoError(t, err)
		assert.Len(t, fetched.Members, 2)
	})

	t.Run("GetByIDNotFound", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 9999)
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})

	t.Run("AddMemberDuplicate", func(t *testing.T) {
		require.NoError(t, repo.AddMember(ctx, group.ID, users[2].ID))

		err := repo.AddMember(ctx, group.ID, users[2].ID)
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeAlreadyMember, appErr.Code)
	})

	t.Run("RemoveMemberAbsent", func(t *testing.T) {
		err := repo.RemoveMember(ctx, group.ID, users[3].ID)
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeNotMember, appErr.Code)
	})

	t.Run("IsMember", func(t *testing.T) {
		member, err := repo.IsMember(ctx, group.ID, users[1].ID)
		assert.NoError(t, err)
		assert.True(t, member)

		member, err = repo.IsMember(ctx, group.ID, users[3].ID)
		assert.NoError(t, err)
		assert.False(t, member)
	})

	t.Run("GetUserGroups", func(t *testing.T) {
		groups, err := repo.GetUserGroups(ctx, users[1].ID)
		assert.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, group.ID, groups[0].ID)

		groups, err = repo.GetUserGroups(ctx, users[3].ID)
		assert.NoError(t, err)
		assert.Empty(t, groups)
	})

	t.Run("DeleteWithMessagesPurgesEverything", func(t *testing.T) {
		require.NoError(t, db.Create(&models.GroupMessage{
			GroupID:  group.ID,
			SenderID: users[0].ID,
			Content:  "see you saturday",
		}).Error)

		require.NoError(t, repo.DeleteWithMessages(ctx, group.ID))

		_, err := repo.GetByID(ctx, group.ID)
		assert.Error(t, err)

		count, err := repo.MemberCount(ctx, group.ID)
		assert.NoError(t, err)
		assert.Zero(t, count)

		var msgCount int64
		require.NoError(t, db.Model(&models.GroupMessage{}).
			Where("group_id = ?", group.ID).Count(&msgCount).Error)
		assert.Zero(t, msgCount)
	})
}
