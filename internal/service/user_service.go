package service

import (
	"fmt"

	"github.com/The-One-Reborn-developer/servis-plus/internal/domain"
)

// UserService implements user profile lookup. Identity validation happens in
// the Telegram bot flow; here a profile either exists or it does not.
type UserService struct {
	userRepo IUserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo IUserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetUserByTelegramID returns the profile for a validated Telegram ID.
func (s *UserService) GetUserByTelegramID(telegramID int64) (*domain.User, error) {
	user, err := s.userRepo.GetUserByTelegramID(telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", telegramID, err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// Register mirrors a profile created in the bot registration flow.
func (s *UserService) Register(user *domain.User) error {
	return s.userRepo.UpsertUser(user)
}
