package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hansei/backend/internal/domain"
)

type UserRepository interface {
	// CreateWithProgress inserts the user and their zeroed progress row in
	// one transaction. Progress is never created lazily after this point.
	CreateWithProgress(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.UserSession) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type ProgressRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserProgress, error)
	// UpdateLocked reads the progress row under a row-level lock, applies fn
	// and writes the result back, all in one transaction. Concurrent calls
	// for the same user serialize; different users do not contend.
	UpdateLocked(ctx context.Context, userID uuid.UUID, fn func(*domain.UserProgress) error) (*domain.UserProgress, error)
	UpdateMood(ctx context.Context, userID uuid.UUID, mood string) error
}

type JournalRepository interface {
	Create(ctx context.Context, entry *domain.JournalEntry) error
	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.JournalEntry, error)
	SaveAnalysis(ctx context.Context, analysis *domain.EmotionAnalysis) error
}

type ChatRepository interface {
	// FindActiveSession returns the user's session without an end time, or
	// gorm.ErrRecordNotFound.
	FindActiveSession(ctx context.Context, userID uuid.UUID) (*domain.ChatSession, error)
	// StartSession ends any active session and inserts a new one in the same
	// transaction, so a user never has two active sessions.
	StartSession(ctx context.Context, userID uuid.UUID) (*domain.ChatSession, error)
	EndSession(ctx context.Context, sessionID uuid.UUID) error
	GetSession(ctx context.Context, sessionID uuid.UUID) (*domain.ChatSession, error)
	DeleteSession(ctx context.Context, sessionID, userID uuid.UUID) error
	SaveMessage(ctx context.Context, message *domain.ChatMessage) error
	GetMessages(ctx context.Context, sessionID uuid.UUID) ([]*domain.ChatMessage, error)
}

type Repositories struct {
	User     UserRepository
	Session  SessionRepository
	Progress ProgressRepository
	Journal  JournalRepository
	Chat     ChatRepository
}
