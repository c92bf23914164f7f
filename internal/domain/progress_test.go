package domain_test

import (
	"testing"
	"time"

	"github.com/hansei/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestUserProgress_CheckIn(t *testing.T) {
	tests := []struct {
		name          string
		progress      domain.UserProgress
		now           time.Time
		wantStreak    int
		wantLongest   int
		wantMessage   string
	}{
		{
			name:        "first ever check-in",
			progress:    domain.UserProgress{},
			now:         date(2024, 1, 10),
			wantStreak:  1,
			wantLongest: 1,
			wantMessage: domain.MsgStreakStarted,
		},
		{
			name: "consecutive day continues streak",
			progress: domain.UserProgress{
				StreakCount:   3,
				LongestStreak: 5,
				LastActivity:  datePtr(2024, 1, 10),
			},
			now:         date(2024, 1, 11),
			wantStreak:  4,
			wantLongest: 5,
			wantMessage: domain.MsgStreakContinued,
		},
		{
			name: "same day is a no-op",
			progress: domain.UserProgress{
				StreakCount:   4,
				LongestStreak: 5,
				LastActivity:  datePtr(2024, 1, 11),
			},
			now:         date(2024, 1, 11),
			wantStreak:  4,
			wantLongest: 5,
			wantMessage: domain.MsgAlreadyCheckedIn,
		},
		{
			name: "gap resets streak to 1",
			progress: domain.UserProgress{
				StreakCount:   4,
				LongestStreak: 5,
				LastActivity:  datePtr(2024, 1, 11),
			},
			now:         date(2024, 1, 20),
			wantStreak:  1,
			wantLongest: 5,
			wantMessage: domain.MsgStreakStarted,
		},
		{
			name: "continuation raises longest streak",
			progress: domain.UserProgress{
				StreakCount:   5,
				LongestStreak: 5,
				LastActivity:  datePtr(2024, 3, 1),
			},
			now:         date(2024, 3, 2),
			wantStreak:  6,
			wantLongest: 6,
			wantMessage: domain.MsgStreakContinued,
		},
		{
			name: "continuation across a month boundary",
			progress: domain.UserProgress{
				StreakCount:   1,
				LongestStreak: 1,
				LastActivity:  datePtr(2024, 1, 31),
			},
			now:         date(2024, 2, 1),
			wantStreak:  2,
			wantLongest: 2,
			wantMessage: domain.MsgStreakContinued,
		},
		{
			name: "time of day does not matter",
			progress: domain.UserProgress{
				StreakCount:   2,
				LongestStreak: 2,
				LastActivity:  datePtr(2024, 1, 10),
			},
			now:         time.Date(2024, 1, 11, 23, 59, 59, 0, time.UTC),
			wantStreak:  3,
			wantLongest: 3,
			wantMessage: domain.MsgStreakContinued,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.progress.CheckIn(tt.now)

			assert.Equal(t, tt.wantStreak, result.StreakCount)
			assert.Equal(t, tt.wantLongest, result.LongestStreak)
			assert.Equal(t, tt.wantMessage, result.Message)
			assert.Equal(t, result.StreakCount, tt.progress.StreakCount)
			assert.Equal(t, result.LongestStreak, tt.progress.LongestStreak)
			assert.GreaterOrEqual(t, tt.progress.LongestStreak, tt.progress.StreakCount)
		})
	}
}

func TestUserProgress_CheckIn_Idempotent(t *testing.T) {
	progress := domain.UserProgress{
		StreakCount:   3,
		LongestStreak: 5,
		LastActivity:  datePtr(2024, 1, 10),
	}
	now := date(2024, 1, 11)

	first := progress.CheckIn(now)
	require.Equal(t, domain.MsgStreakContinued, first.Message)

	second := progress.CheckIn(now)
	assert.Equal(t, domain.MsgAlreadyCheckedIn, second.Message)
	assert.Equal(t, first.StreakCount, second.StreakCount)
	assert.Equal(t, first.LongestStreak, second.LongestStreak)
	require.NotNil(t, progress.LastActivity)
	assert.Equal(t, date(2024, 1, 11), *progress.LastActivity)
}

func TestUserProgress_CheckIn_LongestStreakMonotonic(t *testing.T) {
	progress := domain.UserProgress{}
	days := []time.Time{
		date(2024, 1, 1),
		date(2024, 1, 2),
		date(2024, 1, 3),
		date(2024, 1, 10), // gap, reset
		date(2024, 1, 11),
		date(2024, 1, 11), // repeat
		date(2024, 1, 12),
		date(2024, 1, 13),
	}

	prevLongest := 0
	for _, day := range days {
		result := progress.CheckIn(day)
		assert.GreaterOrEqual(t, result.LongestStreak, prevLongest)
		assert.GreaterOrEqual(t, result.LongestStreak, result.StreakCount)
		prevLongest = result.LongestStreak
	}

	assert.Equal(t, 4, progress.StreakCount)
	assert.Equal(t, 4, progress.LongestStreak)
}

func TestDayOf_NormalizesToUTCDate(t *testing.T) {
	zone := time.FixedZone("UTC+9", 9*60*60)
	// 2024-01-11 08:00 in UTC+9 is still 2024-01-10 in UTC.
	local := time.Date(2024, 1, 11, 8, 0, 0, 0, zone)

	assert.Equal(t, date(2024, 1, 10), domain.DayOf(local))
	assert.Equal(t, date(2024, 1, 10), domain.DayOf(date(2024, 1, 10)))
}
