package repository

import (
	"context"
	"errors"

	"howudoin/internal/models"

	"gorm.io/gorm"
)

// MessageRepository defines the interface for direct and group message data operations
type MessageRepository interface {
	CreateDirect(ctx context.Context, msg *models.Message) error
	GetDirectByID(ctx context.Context, id uint) (*models.Message, error)
	GetConversation(ctx context.Context, userID1, userID2 uint, limit, offset int) ([]models.Message, error)
	GetUnread(ctx context.Context, userID uint) ([]models.Message, error)
	GetSentBy(ctx context.Context, userID uint, limit, offset int) ([]models.Message, error)
	GetReceivedBy(ctx context.Context, userID uint, limit, offset int) ([]models.Message, error)
	UpdateDirectStatus(ctx context.Context, msgID uint, status models.MessageStatus) error
	DeleteConversation(ctx context.Context, userID1, userID2 uint) error
	CreateGroupMessage(ctx context.Context, msg *models.GroupMessage) error
	GetGroupMessages(ctx context.Context, groupID uint, limit, offset int) ([]models.GroupMessage, error)
	CountGroupMessages(ctx context.Context, groupID uint) (int64, error)
}

// messageRepository implements MessageRepository
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) CreateDirect(ctx context.Context, msg *models.Message) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *messageRepository) GetDirectByID(ctx context.Context, id uint) (*models.Message, error) {
	var msg models.Message
	if err := r.db.WithContext(ctx).First(&msg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Message", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &msg, nil
}

// GetConversation returns messages between two users, newest first.
func (r *messageRepository) GetConversation(ctx context.Context, userID1, userID2 uint, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID1, userID2, userID2, userID1).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (r *messageRepository) GetUnread(ctx context.Context, userID uint) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND status != ?", userID, models.MessageStatusRead).
		Order("created_at DESC").
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (r *messageRepository) GetSentBy(ctx context.Context, userID uint, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.WithContext(ctx).
		Where("sender_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (r *messageRepository) GetReceivedBy(ctx context.Context, userID uint, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.WithContext(ctx).
		Where("receiver_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (r *messageRepository) UpdateDirectStatus(ctx context.Context, msgID uint, status models.MessageStatus) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("id = ?", msgID).
		Update("status", status).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *messageRepository) DeleteConversation(ctx context.Context, userID1, userID2 uint) error {
	if err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID1, userID2, userID2, userID1).
		Delete(&models.Message{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *messageRepository) CreateGroupMessage(ctx context.Context, msg *models.GroupMessage) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetGroupMessages returns a group's messages, newest first.
func (r *messageRepository) GetGroupMessages(ctx context.Context, groupID uint, limit, offset int) ([]models.GroupMessage, error) {
	var messages []models.GroupMessage
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (r *messageRepository) CountGroupMessages(ctx context.Context, groupID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.GroupMessage{}).
		Where("group_id = ?", groupID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
