package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hansei/backend/internal/ai"
	"github.com/hansei/backend/internal/cryptobox"
	"github.com/hansei/backend/internal/domain"
	"github.com/hansei/backend/internal/repository"
	"gorm.io/datatypes"
)

type JournalService struct {
	journalRepo  repository.JournalRepository
	progressRepo repository.ProgressRepository
	streaks      *StreakService
	box          *cryptobox.Box
	engine       *ai.Client
}

func NewJournalService(journalRepo repository.JournalRepository, progressRepo repository.ProgressRepository, streaks *StreakService, box *cryptobox.Box, engine *ai.Client) *JournalService {
	return &JournalService{
		journalRepo:  journalRepo,
		progressRepo: progressRepo,
		streaks:      streaks,
		box:          box,
		engine:       engine,
	}
}

// SubmitResult is what a journal submission returns: the stored entry, the
// analysis and streak outcome when those best-effort steps succeeded.
type SubmitResult struct {
	Entry    *domain.JournalEntry
	Analysis *domain.EmotionAnalysis
	CheckIn  *domain.CheckInResult
}

// Submit seals and persists a journal entry, then runs emotion analysis and
// the daily check-in. Only the entry write is mandatory: analyzer outages
// and check-in failures are logged and leave the corresponding result nil.
func (s *JournalService) Submit(ctx context.Context, userID uuid.UUID, content string) (*SubmitResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrEmptyContent
	}

	sealed, err := s.box.Seal(content)
	if err != nil {
		return nil, err
	}

	entry := &domain.JournalEntry{
		ID:               uuid.New(),
		UserID:           userID,
		EncryptedContent: sealed,
		CreatedAt:        time.Now(),
	}
	if err := s.journalRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	result := &SubmitResult{Entry: entry}
	result.Analysis = s.analyzeEntry(ctx, entry, content)

	checkIn, err := s.streaks.CheckIn(ctx, userID)
	if err != nil {
		log.Printf("ERROR [journal.Submit] check-in failed for user %s: %v", userID, err)
	} else {
		result.CheckIn = checkIn
	}

	return result, nil
}

func (s *JournalService) analyzeEntry(ctx context.Context, entry *domain.JournalEntry, content string) *domain.EmotionAnalysis {
	verdict, err := s.engine.AnalyzeEmotion(ctx, content)
	if err != nil {
		log.Printf("ERROR [journal.Submit] emotion analysis unavailable: %v", err)
		return nil
	}

	analysis := &domain.EmotionAnalysis{
		ID:         uuid.New(),
		JournalID:  entry.ID,
		Emotion:    verdict.Emotion,
		Confidence: verdict.Confidence,
		StatusText: verdict.StatusText,
		Raw:        datatypes.JSON(verdict.Raw),
		CreatedAt:  time.Now(),
	}
	if err := s.journalRepo.SaveAnalysis(ctx, analysis); err != nil {
		log.Printf("ERROR [journal.Submit] failed to save analysis: %v", err)
		return nil
	}

	if verdict.StatusText != "" {
		if err := s.progressRepo.UpdateMood(ctx, entry.UserID, verdict.StatusText); err != nil {
			log.Printf("ERROR [journal.Submit] failed to update mood: %v", err)
		}
	}

	return analysis
}

// DecryptedEntry pairs an entry's metadata with its recovered plaintext.
type DecryptedEntry struct {
	ID        uuid.UUID
	Content   string
	Analysis  *domain.EmotionAnalysis
	CreatedAt time.Time
}

// List returns the user's entries newest-first with content decrypted. A
// record that fails to open aborts the listing: surfacing ciphertext (or
// silently dropping entries) would hide storage corruption.
func (s *JournalService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*DecryptedEntry, error) {
	entries, err := s.journalRepo.GetByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	decrypted := make([]*DecryptedEntry, 0, len(entries))
	for _, entry := range entries {
		content, err := s.box.Open(entry.EncryptedContent)
		if err != nil {
			return nil, err
		}
		decrypted = append(decrypted, &DecryptedEntry{
			ID:        entry.ID,
			Content:   content,
			Analysis:  entry.Analysis,
			CreatedAt: entry.CreatedAt,
		})
	}

	return decrypted, nil
}

// ScanImage extracts text from a base64-encoded image via the AI engine.
// Nothing is stored; the client decides what to do with the text.
func (s *JournalService) ScanImage(ctx context.Context, imageBase64 string) (string, error) {
	if imageBase64 == "" {
		return "", domain.ErrEmptyContent
	}
	return s.engine.ExtractText(ctx, imageBase64)
}
