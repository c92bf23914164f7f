package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hansei/backend/internal/domain"
	"github.com/hansei/backend/internal/repository"
)

// StreakService runs the daily check-in against durable progress state. The
// state transition itself lives on domain.UserProgress; this service only
// supplies "now" and the per-user serialization.
type StreakService struct {
	progressRepo repository.ProgressRepository
}

func NewStreakService(progressRepo repository.ProgressRepository) *StreakService {
	return &StreakService{progressRepo: progressRepo}
}

// CheckIn advances the caller's streak for the current UTC day. The
// read-modify-write runs under a per-user row lock, so two concurrent
// check-ins for one user cannot both observe the pre-update state.
func (s *StreakService) CheckIn(ctx context.Context, userID uuid.UUID) (*domain.CheckInResult, error) {
	var result domain.CheckInResult

	_, err := s.progressRepo.UpdateLocked(ctx, userID, func(p *domain.UserProgress) error {
		result = p.CheckIn(time.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetProgress returns the streak state without mutating it.
func (s *StreakService) GetProgress(ctx context.Context, userID uuid.UUID) (*domain.UserProgress, error) {
	return s.progressRepo.GetByUserID(ctx, userID)
}
