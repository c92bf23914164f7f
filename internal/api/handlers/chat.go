package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hansei/backend/internal/api/middleware"
	"github.com/hansei/backend/internal/domain"
	"github.com/hansei/backend/internal/service"
)

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"sessionId"`
}

type ChatMessageResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.chatService.SendMessage(r.Context(), userID, req.Message)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyContent) {
			http.Error(w, "Message is required", http.StatusBadRequest)
			return
		}
		log.Printf("ERROR [chat.Send] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Reply:     result.Reply,
		SessionID: result.SessionID.String(),
	})
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var sessionID *uuid.UUID
	if raw := chi.URLParam(r, "sessionID"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "Invalid session ID", http.StatusBadRequest)
			return
		}
		sessionID = &parsed
	}

	messages, err := h.chatService.History(r.Context(), userID, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR [chat.History] %v", err)
		http.Error(w, "Could not load chat history", http.StatusInternalServerError)
		return
	}

	history := make([]ChatMessageResponse, 0, len(messages))
	for _, msg := range messages {
		history = append(history, ChatMessageResponse{
			ID:        msg.ID.String(),
			Text:      msg.Text,
			Sender:    string(msg.Role),
			CreatedAt: msg.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"history": history})
}

func (h *ChatHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ended, err := h.chatService.EndSession(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR [chat.EndSession] %v", err)
		http.Error(w, "Failed to end session", http.StatusInternalServerError)
		return
	}

	message := "No active session to close"
	if ended {
		message = "Session closed successfully"
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

func (h *ChatHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	if err := h.chatService.DeleteSession(r.Context(), userID, sessionID); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR [chat.DeleteSession] %v", err)
		http.Error(w, "Could not delete chat", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
