package server

import (
	"howudoin/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SendMessage handles POST /api/messages/send
func (s *Server) SendMessage(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		ReceiverID uint   `json:"receiver_id"`
		Content    string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.ReceiverID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A receiver_id is required"))
	}

	message, sendErr := s.messageService.SendMessage(c.Context(), userID, req.ReceiverID, req.Content)
	if sendErr != nil {
		return models.RespondWithAppError(c, sendErr)
	}

	return c.Status(fiber.StatusCreated).JSON(message)
}

// GetConversation handles GET /api/messages/conversation/:userId
func (s *Server) GetConversation(c *fiber.Ctx) error {
	userID := currentUserID(c)
	otherID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 50)
	messages, getErr := s.messageService.GetConversation(c.Context(), userID, otherID, p.Limit, p.Offset)
	if getErr != nil {
		return models.RespondWithAppError(c, getErr)
	}

	return c.JSON(messages)
}

// DeleteConversation handles DELETE /api/messages/conversation/:userId
func (s *Server) DeleteConversation(c *fiber.Ctx) error {
	userID := currentUserID(c)
	otherID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if deleteErr := s.messageService.DeleteConversation(c.Context(), userID, otherID); deleteErr != nil {
		return models.RespondWithAppError(c, deleteErr)
	}

	return c.JSON(fiber.Map{
		"message": "Conversation deleted",
	})
}

// MarkMessageDelivered handles POST /api/messages/:messageId/delivered
func (s *Server) MarkMessageDelivered(c *fiber.Ctx) error {
	userID := currentUserID(c)
	messageID, err := s.parseID(c, "messageId")
	if err != nil {
		return nil
	}

	message, markErr := s.messageService.MarkDelivered(c.Context(), messageID, userID)
	if markErr != nil {
		return models.RespondWithAppError(c, markErr)
	}

	return c.JSON(message)
}

// MarkMessageRead handles POST /api/messages/:messageId/read
func (s *Server) MarkMessageRead(c *fiber.Ctx) error {
	userID := currentUserID(c)
	messageID, err := s.parseID(c, "messageId")
	if err != nil {
		return nil
	}

	message, markErr := s.messageService.MarkRead(c.Context(), messageID, userID)
	if markErr != nil {
		return models.RespondWithAppError(c, markErr)
	}

	return c.JSON(message)
}

// GetUnreadMessages handles GET /api/messages/unread
func (s *Server) GetUnreadMessages(c *fiber.Ctx) error {
	messages, err := s.messageService.GetUnreadMessages(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(messages)
}

// GetSentMessages handles GET /api/messages/sent
func (s *Server) GetSentMessages(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	messages, err := s.messageService.GetSentMessages(c.Context(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(messages)
}

// GetReceivedMessages handles GET /api/messages/received
func (s *Server) GetReceivedMessages(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	messages, err := s.messageService.GetReceivedMessages(c.Context(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(messages)
}
