package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatRole identifies who authored a chat message.
type ChatRole string

const (
	RoleUser ChatRole = "user"
	RoleAI   ChatRole = "ai"
)

// ChatSession groups the messages of one conversation. A session with no
// EndedAt is active; at most one session per user is active at a time.
type ChatSession struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID  `json:"userId" gorm:"type:uuid;index;not null"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt"`

	User     *User         `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Messages []ChatMessage `json:"messages,omitempty" gorm:"foreignKey:SessionID"`
}

// IsActive reports whether the session has not been ended.
func (s *ChatSession) IsActive() bool {
	return s.EndedAt == nil
}

// ChatMessage is a single sealed message within a session.
type ChatMessage struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SessionID     uuid.UUID `json:"sessionId" gorm:"type:uuid;index;not null"`
	Role          ChatRole  `json:"role" gorm:"type:varchar(10);not null"`
	EncryptedText string    `json:"-" gorm:"not null"`
	CreatedAt     time.Time `json:"createdAt"`

	Session *ChatSession `json:"-" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}
