package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hansei/backend/internal/ai"
	"github.com/hansei/backend/internal/cryptobox"
	"github.com/hansei/backend/internal/domain"
	"github.com/hansei/backend/internal/repository"
	"gorm.io/gorm"
)

// FallbackReply is returned when the AI engine cannot be reached. It is not
// persisted: the conversation record holds only what the model actually said.
const FallbackReply = "I'm having a little trouble connecting to my thoughts right now. Can you try again in a second?"

type ChatService struct {
	chatRepo repository.ChatRepository
	box      *cryptobox.Box
	engine   *ai.Client
}

func NewChatService(chatRepo repository.ChatRepository, box *cryptobox.Box, engine *ai.Client) *ChatService {
	return &ChatService{
		chatRepo: chatRepo,
		box:      box,
		engine:   engine,
	}
}

// ChatResult is the outcome of one chat turn.
type ChatResult struct {
	SessionID uuid.UUID
	Reply     string
	Fallback  bool
}

// SendMessage persists the user's sealed message in the active session (one
// is started if needed), asks the engine for a reply and persists that too.
// If the engine fails, the user's message is already durable and a fallback
// reply is returned instead of an error.
func (s *ChatService) SendMessage(ctx context.Context, userID uuid.UUID, message string) (*ChatResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, domain.ErrEmptyContent
	}

	session, err := s.activeOrNewSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.saveMessage(ctx, session.ID, domain.RoleUser, message); err != nil {
		return nil, err
	}

	reply, err := s.engine.Chat(ctx, message)
	if err != nil {
		log.Printf("ERROR [chat.SendMessage] engine unavailable: %v", err)
		return &ChatResult{SessionID: session.ID, Reply: FallbackReply, Fallback: true}, nil
	}

	if err := s.saveMessage(ctx, session.ID, domain.RoleAI, reply); err != nil {
		return nil, err
	}

	return &ChatResult{SessionID: session.ID, Reply: reply}, nil
}

func (s *ChatService) activeOrNewSession(ctx context.Context, userID uuid.UUID) (*domain.ChatSession, error) {
	session, err := s.chatRepo.FindActiveSession(ctx, userID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return s.chatRepo.StartSession(ctx, userID)
}

func (s *ChatService) saveMessage(ctx context.Context, sessionID uuid.UUID, role domain.ChatRole, text string) error {
	sealed, err := s.box.Seal(text)
	if err != nil {
		return err
	}
	return s.chatRepo.SaveMessage(ctx, &domain.ChatMessage{
		ID:            uuid.New(),
		SessionID:     sessionID,
		Role:          role,
		EncryptedText: sealed,
		CreatedAt:     time.Now(),
	})
}

// HistoryMessage is one decrypted message of a session.
type HistoryMessage struct {
	ID        uuid.UUID
	Text      string
	Role      domain.ChatRole
	CreatedAt time.Time
}

// History returns the decrypted messages of the given session, or of the
// active session when sessionID is nil. A nil sessionID with no active
// session yields an empty history. Sessions of other users read as
// not-found.
func (s *ChatService) History(ctx context.Context, userID uuid.UUID, sessionID *uuid.UUID) ([]*HistoryMessage, error) {
	var session *domain.ChatSession

	if sessionID == nil {
		active, err := s.chatRepo.FindActiveSession(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return []*HistoryMessage{}, nil
			}
			return nil, err
		}
		session = active
	} else {
		found, err := s.chatRepo.GetSession(ctx, *sessionID)
		if err != nil {
			return nil, err
		}
		if found.UserID != userID {
			return nil, domain.ErrSessionNotFound
		}
		session = found
	}

	messages, err := s.chatRepo.GetMessages(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	history := make([]*HistoryMessage, 0, len(messages))
	for _, msg := range messages {
		text, err := s.box.Open(msg.EncryptedText)
		if err != nil {
			return nil, err
		}
		history = append(history, &HistoryMessage{
			ID:        msg.ID,
			Text:      text,
			Role:      msg.Role,
			CreatedAt: msg.CreatedAt,
		})
	}

	return history, nil
}

// EndSession closes the caller's active session. Ending when nothing is
// active reports activeFound=false and no error.
func (s *ChatService) EndSession(ctx context.Context, userID uuid.UUID) (bool, error) {
	session, err := s.chatRepo.FindActiveSession(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := s.chatRepo.EndSession(ctx, session.ID); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteSession removes a session and its messages. Only the owner can
// delete; anything else reads as not-found.
func (s *ChatService) DeleteSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	return s.chatRepo.DeleteSession(ctx, sessionID, userID)
}
