package server

import (
	"howudoin/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SendFriendRequest handles POST /api/friends/requests/:userId
func (s *Server) SendFriendRequest(c *fiber.Ctx) error {
	userID := currentUserID(c)
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	friendship, sendErr := s.friendService.SendFriendRequest(c.Context(), userID, targetUserID)
	if sendErr != nil {
		return models.RespondWithAppError(c, sendErr)
	}

	return c.Status(fiber.StatusCreated).JSON(friendship)
}

// GetPendingRequests handles GET /api/friends/requests
func (s *Server) GetPendingRequests(c *fiber.Ctx) error {
	requests, err := s.friendService.GetPendingRequests(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(requests)
}

// GetSentRequests handles GET /api/friends/requests/sent
func (s *Server) GetSentRequests(c *fiber.Ctx) error {
	requests, err := s.friendService.GetSentRequests(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(requests)
}

// AcceptFriendRequest handles POST /api/friends/requests/:requestId/accept
func (s *Server) AcceptFriendRequest(c *fiber.Ctx) error {
	userID := currentUserID(c)
	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}

	friendship, acceptErr := s.friendService.AcceptFriendRequest(c.Context(), userID, requestID)
	if acceptErr != nil {
		return models.RespondWithAppError(c, acceptErr)
	}

	return c.JSON(friendship)
}

// RejectFriendRequest handles POST /api/friends/requests/:requestId/reject
func (s *Server) RejectFriendRequest(c *fiber.Ctx) error {
	userID := currentUserID(c)
	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}

	friendship, rejectErr := s.friendService.RejectFriendRequest(c.Context(), userID, requestID)
	if rejectErr != nil {
		return models.RespondWithAppError(c, rejectErr)
	}

	return c.JSON(friendship)
}

// CancelFriendRequest handles DELETE /api/friends/requests/:requestId
func (s *Server) CancelFriendRequest(c *fiber.Ctx) error {
	userID := currentUserID(c)
	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}

	if cancelErr := s.friendService.CancelFriendRequest(c.Context(), userID, requestID); cancelErr != nil {
		return models.RespondWithAppError(c, cancelErr)
	}

	return c.JSON(fiber.Map{
		"message": "Friend request cancelled",
	})
}

// GetFriends handles GET /api/friends
func (s *Server) GetFriends(c *fiber.Ctx) error {
	friends, err := s.friendService.GetFriends(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(friends)
}

// GetFriendshipStatus handles GET /api/friends/status/:userId
func (s *Server) GetFriendshipStatus(c *fiber.Ctx) error {
	userID := currentUserID(c)
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	status, requestID, _, statusErr := s.friendService.GetFriendshipStatus(c.Context(), userID, targetUserID)
	if statusErr != nil {
		return models.RespondWithAppError(c, statusErr)
	}

	resp := fiber.Map{
		"status": status,
	}
	if requestID != 0 {
		resp["request_id"] = requestID
	}
	return c.JSON(resp)
}

// BlockUser handles POST /api/friends/block/:userId
func (s *Server) BlockUser(c *fiber.Ctx) error {
	userID := currentUserID(c)
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	edge, blockErr := s.friendService.BlockUser(c.Context(), userID, targetUserID)
	if blockErr != nil {
		return models.RespondWithAppError(c, blockErr)
	}

	return c.JSON(edge)
}

// GetBlockedUsers handles GET /api/friends/blocked
func (s *Server) GetBlockedUsers(c *fiber.Ctx) error {
	edges, err := s.friendService.GetBlockedUsers(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(edges)
}

// RemoveFriend handles DELETE /api/friends/:userId
func (s *Server) RemoveFriend(c *fiber.Ctx) error {
	userID := currentUserID(c)
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if _, removeErr := s.friendService.RemoveFriend(c.Context(), userID, targetUserID); removeErr != nil {
		return models.RespondWithAppError(c, removeErr)
	}

	return c.JSON(fiber.Map{
		"message": "Friend removed",
	})
}
