package server

import (
	"howudoin/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateGroup handles POST /api/groups/create
func (s *Server) CreateGroup(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Name      string `json:"name"`
		MemberIDs []uint `json:"member_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	group, err := s.groupService.CreateGroup(c.Context(), req.Name, userID, req.MemberIDs)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(group)
}

// GetMyGroups handles GET /api/groups/mine
func (s *Server) GetMyGroups(c *fiber.Ctx) error {
	groups, err := s.groupService.GetUserGroups(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(groups)
}

// GetGroup handles GET /api/groups/:groupId
func (s *Server) GetGroup(c *fiber.Ctx) error {
	userID := currentUserID(c)
	groupID, err := s.parseID(c, "groupId")
	if err != nil {
		return nil
	}

	group, getErr := s.groupService.GetGroup(c.Context(), groupID, userID)
	if getErr != nil {
		return models.RespondWithAppError(c, getErr)
	}

	return c.JSON(group)
}

// AddGroupMember handles POST /api/groups/:groupId/add-member
func (s *Server) AddGroupMember(c *fiber.Ctx) error {
	userID := currentUserID(c)
	groupID, err := s.parseID(c, "groupId")
	if err != nil {
		return nil
	}

	var req struct {
		UserID uint `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.UserID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A user_id is required"))
	}

	// Only existing members may grow the group
	if memberErr := s.groupService.RequireMember(c.Context(), groupID, userID); memberErr != nil {
		return models.RespondWithAppError(c, memberErr)
	}

	group, addErr := s.groupService.AddMember(c.Context(), groupID, req.UserID)
	if addErr != nil {
		return models.RespondWithAppError(c, addErr)
	}

	return c.JSON(group)
}

// RemoveGroupMember handles DELETE /api/groups/:groupId/members/:userId
func (s *Server) RemoveGroupMember(c *fiber.Ctx) error {
	userID := currentUserID(c)
	groupID, err := s.parseID(c, "groupId")
	if err != nil {
		return nil
	}
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	// Members may leave; anything else requires being a member too
	if memberErr := s.groupService.RequireMember(c.Context(), groupID, userID); memberErr != nil {
		return models.RespondWithAppError(c, memberErr)
	}

	group, removeErr := s.groupService.RemoveMember(c.Context(), groupID, targetUserID)
	if removeErr != nil {
		return models.RespondWithAppError(c, removeErr)
	}

	return c.JSON(group)
}

// GetGroupMembers handles GET /api/groups/:groupId/members
func (s *Server) GetGroupMembers(c *fiber.Ctx) error {
	userID := currentUserID(c)
	groupID, err := s.parseID(c, "groupId")
	if err != nil {
		return nil
	}

	members, getErr := s.groupService.GetMembers(c.Context(), groupID, userID)
	if getErr != nil {
		return models.RespondWithAppError(c, getErr)
	}

	return c.JSON(members)
}

// SendGroupMessage handles POST /api/groups/:groupId/send
func (s *Server) SendGroupMessage(c *fiber.Ctx) error {
	userID := currentUserID(c)
	groupID, err := s.parseID(c, "groupId")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, sendErr := s.messageService.SendGroupMessage(c.Context(), groupID, userID, req.Content)
	if sendErr != nil {
		return models.RespondWithAppError(c, sendErr)
	}

	return c.Status(fiber.StatusCreated).JSON(message)
}

// GetGroupMessages handles GET /api/groups/:groupId/messages
func (s *Server) GetGroupMessages(c *fiber.Ctx) error {
	userID := currentUserID(c)
	groupID, err := s.parseID(c, "groupId")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 50)
	messages, getErr := s.messageService.GetGroupMessages(c.Context(), groupID, userID, p.Limit, p.Offset)
	if getErr != nil {
		return models.RespondWithAppError(c, getErr)
	}

	return c.JSON(messages)
}

// GetGroupMessageCount handles GET /api/groups/:groupId/messages/count
func (s *Server) GetGroupMessageCount(c *fiber.Ctx) error {
	userID := currentUserID(c)
	groupID, err := s.parseID(c, "groupId")
	if err != nil {
		return nil
	}

	count, countErr := s.messageService.GetGroupMessageCount(c.Context(), groupID, userID)
	if countErr != nil {
		return models.RespondWithAppError(c, countErr)
	}

	return c.JSON(fiber.Map{
		"count": count,
	})
}

// DeleteGroup handles DELETE /api/groups/:groupId
func (s *Server) DeleteGroup(c *fiber.Ctx) error {
	userID := currentUserID(c)
	groupID, err := s.parseID(c, "groupId")
	if err != nil {
		return nil
	}

	if deleteErr := s.groupService.DeleteGroup(c.Context(), groupID, userID); deleteErr != nil {
		return models.RespondWithAppError(c, deleteErr)
	}

	return c.JSON(fiber.Map{
		"message": "Group deleted",
	})
}
