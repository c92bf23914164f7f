package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/hansei/backend/internal/api/handlers"
	"github.com/hansei/backend/internal/api/middleware"
	"github.com/hansei/backend/internal/service"
)

func NewRouter(services *service.Services) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	profileHandler := handlers.NewProfileHandler(services.Profile, services.Streak)
	journalHandler := handlers.NewJournalHandler(services.Journal)
	chatHandler := handlers.NewChatHandler(services.Chat)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			// Profile and streak routes
			r.Route("/profile", func(r chi.Router) {
				r.Get("/", profileHandler.GetProfile)
				r.Patch("/", profileHandler.UpdateProfile)
				r.Patch("/change-password", profileHandler.ChangePassword)
				r.Delete("/", profileHandler.DeleteAccount)
				r.Post("/check-in", profileHandler.CheckIn)
				r.Get("/streak", profileHandler.GetStreak)
			})

			// Journal routes
			r.Route("/journal", func(r chi.Router) {
				r.Post("/", journalHandler.Submit)
				r.Get("/", journalHandler.List)
				r.Post("/scan", journalHandler.Scan)
			})

			// Chat routes
			r.Route("/chat", func(r chi.Router) {
				r.Post("/", chatHandler.Send)
				r.Get("/history", chatHandler.History)
				r.Get("/history/{sessionID}", chatHandler.History)
				r.Delete("/history/{sessionID}", chatHandler.DeleteSession)
				r.Post("/end-session", chatHandler.EndSession)
			})
		})
	})

	return r
}
