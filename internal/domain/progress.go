package domain

import (
	"time"

	"github.com/google/uuid"
)

// Check-in status messages returned to the client.
const (
	MsgAlreadyCheckedIn = "Already checked in today"
	MsgStreakContinued  = "Streak continued!"
	MsgStreakStarted    = "Streak started!"
)

// UserProgress tracks a user's daily check-in streak and current mood.
// Created zeroed at registration, mutated only by CheckIn.
type UserProgress struct {
	UserID        uuid.UUID  `json:"userId" gorm:"type:uuid;primary_key"`
	StreakCount   int        `json:"streakCount" gorm:"not null;default:0"`
	LongestStreak int        `json:"longestStreak" gorm:"not null;default:0"`
	LastActivity  *time.Time `json:"lastActivity" gorm:"type:date"`
	CurrentMood   string     `json:"currentMood" gorm:"default:''"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}

// CheckInResult is the outcome of a check-in attempt.
type CheckInResult struct {
	StreakCount   int    `json:"streak"`
	LongestStreak int    `json:"longestStreak"`
	Message       string `json:"message"`
}

// DayOf normalizes an instant to its UTC calendar date (midnight UTC).
// Streak arithmetic is defined over UTC days so behavior does not depend on
// the server's local zone.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// CheckIn advances the streak state for the UTC day containing now.
//
// A second check-in on the same day is a no-op, a check-in on the day after
// the last activity extends the streak, and any larger gap (or a first ever
// check-in) restarts it at 1. LongestStreak never decreases.
func (p *UserProgress) CheckIn(now time.Time) CheckInResult {
	today := DayOf(now)

	if p.LastActivity != nil && DayOf(*p.LastActivity).Equal(today) {
		return CheckInResult{
			StreakCount:   p.StreakCount,
			LongestStreak: p.LongestStreak,
			Message:       MsgAlreadyCheckedIn,
		}
	}

	message := MsgStreakStarted
	if p.LastActivity != nil && DayOf(*p.LastActivity).AddDate(0, 0, 1).Equal(today) {
		p.StreakCount++
		message = MsgStreakContinued
	} else {
		p.StreakCount = 1
	}

	if p.StreakCount > p.LongestStreak {
		p.LongestStreak = p.StreakCount
	}
	p.LastActivity = &today

	return CheckInResult{
		StreakCount:   p.StreakCount,
		LongestStreak: p.LongestStreak,
		Message:       message,
	}
}
