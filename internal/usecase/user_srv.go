package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"blog-platform/internal/data/repository"
	"blog-platform/internal/dto/request"
	"blog-platform/internal/dto/response"
	"blog-platform/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.ProfileResponse, error)
	GetPublicProfile(ctx context.Context, username string) (*response.PublicProfileResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log.With(zap.String("service", "user")),
	}
}

func parseID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fail(ErrValidation, "invalid %s id", what)
	}
	return id, nil
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.ProfileResponse, error) {
	user, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if user == nil {
		return nil, fail(ErrNotFound, "user not found")
	}

	activity, err := us.userRepo.Activity(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	resp := response.ProfileToResponse(user, activity)
	return &resp, nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.ProfileResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if user == nil {
		return nil, fail(ErrNotFound, "user not found")
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username != user.Username {
			other, err := us.userRepo.FindByUsername(ctx, username)
			if err != nil {
				return nil, fmt.Errorf("update profile: %w", err)
			}
			if other != nil && other.ID != user.ID {
				return nil, fail(ErrConflict, "username already in use")
			}
			user.Username = username
		}
	}

	if req.Email != nil {
		email := utils.NormalizeEmail(*req.Email)
		if email != user.Email {
			other, err := us.userRepo.FindByEmail(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("update profile: %w", err)
			}
			if other != nil && other.ID != user.ID {
				return nil, fail(ErrConflict, "email already in use")
			}
			user.Email = email
		}
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		if *req.AvatarURL == "" {
			user.AvatarURL = nil
		} else {
			user.AvatarURL = req.AvatarURL
		}
	}

	user.UpdatedAt = time.Now()
	if err := us.userRepo.UpdateProfile(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, fail(ErrConflict, "email or username already in use")
		case errors.Is(err, repository.ErrNotFound):
			return nil, fail(ErrNotFound, "user not found")
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	us.log.Info("Profile updated", zap.String("user_id", user.ID.String()))
	return us.GetProfile(ctx, user.ID)
}

func (us *userService) GetPublicProfile(ctx context.Context, username string) (*response.PublicProfileResponse, error) {
	user, err := us.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get public profile: %w", err)
	}
	if user == nil {
		return nil, fail(ErrNotFound, "user not found")
	}

	activity, err := us.userRepo.Activity(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("get public profile: %w", err)
	}

	resp := response.PublicProfileToResponse(user, activity)
	return &resp, nil
}
