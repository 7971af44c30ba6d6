package server

import (
	"howudoin/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetUserByID(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(user)
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, getErr := s.userService.GetUserByID(c.Context(), id)
	if getErr != nil {
		return models.RespondWithAppError(c, getErr)
	}

	return c.JSON(user)
}

// SearchUsers handles GET /api/users/search?first_name=...&last_name=...
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	users, err := s.userService.SearchUsers(c.Context(), c.Query("first_name"), c.Query("last_name"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(users)
}

// GetVerifiedUsers handles GET /api/users/verified
func (s *Server) GetVerifiedUsers(c *fiber.Ctx) error {
	users, err := s.userService.ListVerifiedUsers(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(users)
}
