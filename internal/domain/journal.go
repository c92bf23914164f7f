package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// JournalEntry stores a user's journal text in sealed form only. Entries are
// immutable once written.
type JournalEntry struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID           uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	EncryptedContent string    `json:"-" gorm:"not null"`
	CreatedAt        time.Time `json:"createdAt"`

	User     *User            `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Analysis *EmotionAnalysis `json:"analysis,omitempty" gorm:"foreignKey:JournalID;constraint:OnDelete:CASCADE"`
}

// EmotionAnalysis is the analyzer's verdict for one journal entry. Raw keeps
// the full analyzer payload for later reprocessing.
type EmotionAnalysis struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	JournalID  uuid.UUID      `json:"journalId" gorm:"type:uuid;uniqueIndex;not null"`
	Emotion    string         `json:"emotion" gorm:"not null"`
	Confidence float64        `json:"confidence" gorm:"not null"`
	StatusText string         `json:"statusText"`
	Raw        datatypes.JSON `json:"-" gorm:"type:jsonb"`
	CreatedAt  time.Time      `json:"createdAt"`
}

func (EmotionAnalysis) TableName() string {
	return "emotion_analysis"
}
