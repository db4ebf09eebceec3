package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/sporthub-backend/internal/logger"
	"github.com/yungbote/sporthub-backend/internal/platform/apierr"
	"github.com/yungbote/sporthub-backend/internal/repos"
)

type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*UserProfile, error)
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) error
}

// UserProfile is the outward shape of a user, password omitted.
type UserProfile struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	AvatarURL string    `json:"avatar_url"`
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		db:       db,
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func (us *userService) GetUser(ctx context.Context, id uuid.UUID) (*UserProfile, error) {
	user, err := us.userRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, apierr.NotFound("not_found", "user not found")
	}
	return &UserProfile{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      string(user.Role),
		AvatarURL: user.AvatarURL,
	}, nil
}

func (us *userService) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) error {
	avatarURL = strings.TrimSpace(avatarURL)
	if avatarURL == "" {
		return apierr.Invalid("invalid_input", "avatar url is required")
	}
	user, err := us.userRepo.GetByID(ctx, nil, id)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return apierr.NotFound("not_found", "user not found")
	}
	if err := us.userRepo.Update(ctx, nil, id, map[string]interface{}{"avatar_url": avatarURL}); err != nil {
		return fmt.Errorf("update avatar: %w", err)
	}
	return nil
}
