package service

import (
	"github.com/hansei/backend/internal/ai"
	"github.com/hansei/backend/internal/config"
	"github.com/hansei/backend/internal/cryptobox"
	"github.com/hansei/backend/internal/repository"
)

type Services struct {
	Auth    *AuthService
	Profile *ProfileService
	Streak  *StreakService
	Journal *JournalService
	Chat    *ChatService
}

func NewServices(repos *repository.Repositories, box *cryptobox.Box, engine *ai.Client, cfg *config.Config) *Services {
	streak := NewStreakService(repos.Progress)
	return &Services{
		Auth:    NewAuthService(repos.User, repos.Session, cfg),
		Profile: NewProfileService(repos.User, repos.Progress),
		Streak:  streak,
		Journal: NewJournalService(repos.Journal, repos.Progress, streak, box, engine),
		Chat:    NewChatService(repos.Chat, box, engine),
	}
}
