package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/ponbac/rolf-time/models"
	"github.com/ponbac/rolf-time/repositories"
	"github.com/ponbac/rolf-time/storage"
)

type UpdateProfileInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Avatar      *string `json:"avatar"`
}

type UserService interface {
	GetProfileByID(ctx context.Context, id string) (*models.User, error)
	ListProfiles(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*models.User, error)
	UploadAvatar(ctx context.Context, id string, contentType string, content io.Reader) (*models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
	uploader storage.FileUploader
}

func NewUserService(userRepo repositories.UserRepository, uploader storage.FileUploader) UserService {
	return &userService{
		userRepo: userRepo,
		uploader: uploader,
	}
}

func (s *userService) GetProfileByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) ListProfiles(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetProfileByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrNameRequired
		}
		user.Name = *input.Name
	}
	if input.Description != nil {
		user.Description = *input.Description
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}

	if err := s.userRepo.UpdateProfile(ctx, id, user.Name, user.Description, user.Avatar); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user %s: %w", id, err)
	}
	return user, nil
}

var avatarExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

func (s *userService) UploadAvatar(ctx context.Context, id string, contentType string, content io.Reader) (*models.User, error) {
	user, err := s.GetProfileByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ext, ok := avatarExtensions[contentType]
	if !ok {
		return nil, ErrUnsupportedImageType
	}

	key := path.Join("avatars", user.ID+ext)
	result, err := s.uploader.Upload(ctx, key, contentType, content)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar for user %s: %w", id, err)
	}

	avatarURL := result.Location
	return s.UpdateProfile(ctx, id, UpdateProfileInput{Avatar: &avatarURL})
}
