package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hansei/backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type progressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *progressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserProgress, error) {
	var progress domain.UserProgress
	err := r.db.WithContext(ctx).First(&progress, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProgressNotFound
		}
		return nil, err
	}
	return &progress, nil
}

// UpdateLocked serializes concurrent mutations of one user's progress with a
// SELECT ... FOR UPDATE. Rows of other users are not touched, so unrelated
// check-ins never contend.
func (r *progressRepository) UpdateLocked(ctx context.Context, userID uuid.UUID, fn func(*domain.UserProgress) error) (*domain.UserProgress, error) {
	var progress domain.UserProgress

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&progress, "user_id = ?", userID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrProgressNotFound
			}
			return err
		}

		if err := fn(&progress); err != nil {
			return err
		}

		progress.UpdatedAt = time.Now()
		return tx.Save(&progress).Error
	})
	if err != nil {
		return nil, err
	}

	return &progress, nil
}

func (r *progressRepository) UpdateMood(ctx context.Context, userID uuid.UUID, mood string) error {
	return r.db.WithContext(ctx).
		Model(&domain.UserProgress{}).
		Where("user_id = ?", userID).
		Update("current_mood", mood).Error
}
