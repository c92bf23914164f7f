package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/hansei/backend/internal/domain"
	"gorm.io/gorm"
)

type journalRepository struct {
	db *gorm.DB
}

func NewJournalRepository(db *gorm.DB) *journalRepository {
	return &journalRepository{db: db}
}

func (r *journalRepository) Create(ctx context.Context, entry *domain.JournalEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *journalRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.JournalEntry, error) {
	var entries []*domain.JournalEntry
	query := r.db.WithContext(ctx).
		Preload("Analysis").
		Where("user_id = ?", userID).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	err := query.Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *journalRepository) SaveAnalysis(ctx context.Context, analysis *domain.EmotionAnalysis) error {
	return r.db.WithContext(ctx).Create(analysis).Error
}
