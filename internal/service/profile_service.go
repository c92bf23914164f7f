package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hansei/backend/internal/domain"
	"github.com/hansei/backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrWrongPassword    = errors.New("current password is incorrect")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

type ProfileService struct {
	userRepo     repository.UserRepository
	progressRepo repository.ProgressRepository
}

func NewProfileService(userRepo repository.UserRepository, progressRepo repository.ProgressRepository) *ProfileService {
	return &ProfileService{
		userRepo:     userRepo,
		progressRepo: progressRepo,
	}
}

// UserProfile joins identity with streak state for the profile screen.
type UserProfile struct {
	User     *domain.User
	Progress *domain.UserProgress
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	progress, err := s.progressRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserProfile{User: user, Progress: progress}, nil
}

// UpdateProfileInput carries optional identity updates; nil means unchanged.
type UpdateProfileInput struct {
	Username *string
	Email    *string
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.User, error) {
	if input.Username == nil && input.Email == nil {
		return nil, domain.ErrNoFieldsToUpdate
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.Username != nil && *input.Username != user.Username {
		if existing, err := s.userRepo.GetByUsername(ctx, *input.Username); err == nil && existing.ID != userID {
			return nil, ErrUsernameExists
		}
		user.Username = *input.Username
	}

	if input.Email != nil && *input.Email != user.Email {
		if existing, err := s.userRepo.GetByEmail(ctx, *input.Email); err == nil && existing.ID != userID {
			return nil, ErrEmailExists
		}
		user.Email = *input.Email
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

func (s *ProfileService) ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) error {
	if input.NewPassword != input.ConfirmPassword {
		return ErrPasswordMismatch
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hashed)
	return s.userRepo.Update(ctx, user)
}

func (s *ProfileService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return s.userRepo.Delete(ctx, userID)
}
