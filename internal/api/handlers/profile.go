package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/hansei/backend/internal/api/middleware"
	"github.com/hansei/backend/internal/domain"
	"github.com/hansei/backend/internal/service"
)

type ProfileHandler struct {
	profileService *service.ProfileService
	streakService  *service.StreakService
}

func NewProfileHandler(profileService *service.ProfileService, streakService *service.StreakService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		streakService:  streakService,
	}
}

type ProfileResponse struct {
	User          UserResponse `json:"user"`
	StreakCount   int          `json:"streakCount"`
	LongestStreak int          `json:"longestStreak"`
	CurrentMood   string       `json:"currentMood"`
	LastActivity  *time.Time   `json:"lastActivity"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type CheckInResponse struct {
	Streak        int    `json:"streak"`
	LongestStreak int    `json:"longestStreak"`
	Message       string `json:"message"`
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	profile, err := h.profileService.GetProfile(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR [profile.GetProfile] failed to get profile: %v", err)
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, domain.ErrProgressNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ProfileResponse{
		User: UserResponse{
			ID:       profile.User.ID.String(),
			Username: profile.User.Username,
			Email:    profile.User.Email,
		},
		StreakCount:   profile.Progress.StreakCount,
		LongestStreak: profile.Progress.LongestStreak,
		CurrentMood:   profile.Progress.CurrentMood,
		LastActivity:  profile.Progress.LastActivity,
	})
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.profileService.UpdateProfile(r.Context(), userID, service.UpdateProfileInput{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoFieldsToUpdate):
			http.Error(w, "No fields to update", http.StatusBadRequest)
		case errors.Is(err, service.ErrUsernameExists):
			http.Error(w, "Username already exists", http.StatusConflict)
		case errors.Is(err, service.ErrEmailExists):
			http.Error(w, "Email already exists", http.StatusConflict)
		case errors.Is(err, service.ErrUserNotFound):
			http.Error(w, "User not found", http.StatusNotFound)
		default:
			log.Printf("ERROR [profile.UpdateProfile] %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, UserResponse{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
	})
}

func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		http.Error(w, "All fields are required", http.StatusBadRequest)
		return
	}

	err := h.profileService.ChangePassword(r.Context(), userID, service.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPasswordMismatch):
			http.Error(w, "Passwords do not match", http.StatusBadRequest)
		case errors.Is(err, service.ErrWrongPassword):
			http.Error(w, "Current password is incorrect", http.StatusUnauthorized)
		case errors.Is(err, service.ErrUserNotFound):
			http.Error(w, "User not found", http.StatusNotFound)
		default:
			log.Printf("ERROR [profile.ChangePassword] %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset successfully"})
}

func (h *ProfileHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.profileService.DeleteAccount(r.Context(), userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR [profile.DeleteAccount] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *ProfileHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	result, err := h.streakService.CheckIn(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrProgressNotFound) {
			http.Error(w, "User progress not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR [profile.CheckIn] %v", err)
		http.Error(w, "Failed to check in user", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, CheckInResponse{
		Streak:        result.StreakCount,
		LongestStreak: result.LongestStreak,
		Message:       result.Message,
	})
}

func (h *ProfileHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	progress, err := h.streakService.GetProgress(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrProgressNotFound) {
			http.Error(w, "User progress not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR [profile.GetStreak] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"streak":        progress.StreakCount,
		"longestStreak": progress.LongestStreak,
	})
}
