package service

import (
	"context"
	"strings"

	"howudoin/internal/models"
	"howudoin/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// SearchUsers looks up users by first or last name, case-insensitive.
// Exactly one of the two terms may be empty.
func (s *UserService) SearchUsers(ctx context.Context, firstName, lastName string) ([]models.User, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" && lastName == "" {
		return nil, models.NewValidationError("A first or last name is required")
	}

	if firstName != "" {
		return s.userRepo.SearchByFirstName(ctx, firstName)
	}
	return s.userRepo.SearchByLastName(ctx, lastName)
}

// ListVerifiedUsers returns every user with a confirmed email address.
func (s *UserService) ListVerifiedUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListVerified(ctx)
}

// VerifyEmail confirms the account matching the verification token. Tokens
// are single use; the token is cleared once consumed.
func (s *UserService) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, models.NewValidationError("Verification token is required")
	}

	user, err := s.userRepo.GetByVerificationToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &models.AppError{
			Code:    models.CodeNotFound,
			Message: "Verification token not found or already used",
		}
	}

	user.EmailVerified = true
	user.EmailVerificationToken = ""
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
