package service

import (
	"context"

	"howudoin/internal/models"
	"howudoin/internal/repository"
)

// MessageService gates direct messaging on friendship and group messaging on
// membership, and owns the delivery-status lifecycle.
type MessageService struct {
	messageRepo repository.MessageRepository
	friendSvc   *FriendService
	groupSvc    *GroupService
}

// NewMessageService returns a new MessageService.
func NewMessageService(messageRepo repository.MessageRepository, friendSvc *FriendService, groupSvc *GroupService) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		friendSvc:   friendSvc,
		groupSvc:    groupSvc,
	}
}

// SendMessage delivers a direct message from sender to receiver. The two must
// currently be friends; a removed or blocked friendship closes the channel.
func (s *MessageService) SendMessage(ctx context.Context, senderID, receiverID uint, content string) (*models.Message, error) {
	if senderID == receiverID {
		return nil, models.NewSelfReferenceError("You cannot message yourself")
	}
	if content == "" {
		return nil, models.NewValidationError("Message content is required")
	}

	blocked, err := s.friendSvc.IsBlocked(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, models.NewForbiddenError("You cannot message this user")
	}

	friends, err := s.friendSvc.AreFriends(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if !friends {
		return nil, models.NewForbiddenError("You can only message your friends")
	}

	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Status:     models.MessageStatusSent,
	}
	if err := s.messageRepo.CreateDirect(ctx, message); err != nil {
		return nil, err
	}
	return s.messageRepo.GetDirectByID(ctx, message.ID)
}

// GetConversation returns the direct-message history between the two users,
// newest first. The requester must currently be friends with the other user.
func (s *MessageService) GetConversation(ctx context.Context, userID, otherID uint, limit, offset int) ([]models.Message, error) {
	friends, err := s.friendSvc.AreFriends(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	if !friends {
		return nil, models.NewForbiddenError("You can only view conversations with your friends")
	}
	return s.messageRepo.GetConversation(ctx, userID, otherID, limit, offset)
}

// MarkDelivered advances the message to delivered. Receiver only.
// Marking an already delivered or read message is a no-op.
func (s *MessageService) MarkDelivered(ctx context.Context, messageID, userID uint) (*models.Message, error) {
	return s.advanceStatus(ctx, messageID, userID, models.MessageStatusDelivered)
}

// MarkRead advances the message to read. Receiver only. Idempotent.
func (s *MessageService) MarkRead(ctx context.Context, messageID, userID uint) (*models.Message, error) {
	return s.advanceStatus(ctx, messageID, userID, models.MessageStatusRead)
}

// advanceStatus moves a message forward along sent -> delivered -> read.
// Status never moves backwards; re-applying the current or an earlier status
// leaves the message unchanged.
func (s *MessageService) advanceStatus(ctx context.Context, messageID, userID uint, target models.MessageStatus) (*models.Message, error) {
	message, err := s.messageRepo.GetDirectByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if message.ReceiverID != userID {
		return nil, models.NewForbiddenError("Only the receiver can update message status")
	}
	if message.Status.AtLeast(target) {
		return message, nil
	}
	if err := s.messageRepo.UpdateDirectStatus(ctx, messageID, target); err != nil {
		return nil, err
	}
	message.Status = target
	return message, nil
}

// GetUnreadMessages returns the user's received messages not yet marked read.
func (s *MessageService) GetUnreadMessages(ctx context.Context, userID uint) ([]models.Message, error) {
	return s.messageRepo.GetUnread(ctx, userID)
}

// GetSentMessages returns the user's sent direct messages, newest first.
func (s *MessageService) GetSentMessages(ctx context.Context, userID uint, limit, offset int) ([]models.Message, error) {
	return s.messageRepo.GetSentBy(ctx, userID, limit, offset)
}

// GetReceivedMessages returns the user's received direct messages, newest first.
func (s *MessageService) GetReceivedMessages(ctx context.Context, userID uint, limit, offset int) ([]models.Message, error) {
	return s.messageRepo.GetReceivedBy(ctx, userID, limit, offset)
}

// DeleteConversation removes the entire direct-message history between the
// requester and the other user. Both directions are purged.
func (s *MessageService) DeleteConversation(ctx context.Context, userID, otherID uint) error {
	friends, err := s.friendSvc.AreFriends(ctx, userID, otherID)
	if err != nil {
		return err
	}
	if !friends {
		return models.NewForbiddenError("You can only manage conversations with your friends")
	}
	return s.messageRepo.DeleteConversation(ctx, userID, otherID)
}

// SendGroupMessage posts a message to a group the sender belongs to.
func (s *MessageService) SendGroupMessage(ctx context.Context, groupID, senderID uint, content string) (*models.GroupMessage, error) {
	if content == "" {
		return nil, models.NewValidationError("Message content is required")
	}
	if err := s.groupSvc.RequireMember(ctx, groupID, senderID); err != nil {
		return nil, err
	}

	message := &models.GroupMessage{
		GroupID:  groupID,
		SenderID: senderID,
		Content:  content,
	}
	if err := s.messageRepo.CreateGroupMessage(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// GetGroupMessages returns the group's message history, newest first.
// Members only.
func (s *MessageService) GetGroupMessages(ctx context.Context, groupID, userID uint, limit, offset int) ([]models.GroupMessage, error) {
	if err := s.groupSvc.RequireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.messageRepo.GetGroupMessages(ctx, groupID, limit, offset)
}

// GetGroupMessageCount returns the total message count for a group; members only.
func (s *MessageService) GetGroupMessageCount(ctx context.Context, groupID, userID uint) (int64, error) {
	if err := s.groupSvc.RequireMember(ctx, groupID, userID); err != nil {
		return 0, err
	}
	return s.messageRepo.CountGroupMessages(ctx, groupID)
}
