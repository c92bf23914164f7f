package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/hansei/backend/internal/api/middleware"
	"github.com/hansei/backend/internal/domain"
	"github.com/hansei/backend/internal/service"
)

type JournalHandler struct {
	journalService *service.JournalService
}

func NewJournalHandler(journalService *service.JournalService) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

type SubmitJournalRequest struct {
	Content string `json:"content"`
}

type AnalysisResponse struct {
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
	StatusText string  `json:"statusText"`
}

type SubmitJournalResponse struct {
	Message   string            `json:"message"`
	EntryID   string            `json:"entryId"`
	CreatedAt time.Time         `json:"createdAt"`
	Analysis  *AnalysisResponse `json:"analysis,omitempty"`
	CheckIn   *CheckInResponse  `json:"checkIn,omitempty"`
}

type JournalEntryResponse struct {
	ID        string            `json:"id"`
	Content   string            `json:"content"`
	Analysis  *AnalysisResponse `json:"analysis,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

type ScanRequest struct {
	ImageBase64 string `json:"imageBase64"`
}

func (h *JournalHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req SubmitJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.journalService.Submit(r.Context(), userID, req.Content)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyContent) {
			http.Error(w, "Journal content cannot be empty", http.StatusBadRequest)
			return
		}
		log.Printf("ERROR [journal.Submit] %v", err)
		http.Error(w, "Failed to save journal entry", http.StatusInternalServerError)
		return
	}

	resp := SubmitJournalResponse{
		Message:   "Journal entry saved successfully!",
		EntryID:   result.Entry.ID.String(),
		CreatedAt: result.Entry.CreatedAt,
	}
	if result.Analysis != nil {
		resp.Analysis = &AnalysisResponse{
			Emotion:    result.Analysis.Emotion,
			Confidence: result.Analysis.Confidence,
			StatusText: result.Analysis.StatusText,
		}
	}
	if result.CheckIn != nil {
		resp.CheckIn = &CheckInResponse{
			Streak:        result.CheckIn.StreakCount,
			LongestStreak: result.CheckIn.LongestStreak,
			Message:       result.CheckIn.Message,
		}
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	entries, err := h.journalService.List(r.Context(), userID, limit, offset)
	if err != nil {
		log.Printf("ERROR [journal.List] %v", err)
		http.Error(w, "Could not load journal entries", http.StatusInternalServerError)
		return
	}

	resp := make([]JournalEntryResponse, 0, len(entries))
	for _, entry := range entries {
		item := JournalEntryResponse{
			ID:        entry.ID.String(),
			Content:   entry.Content,
			CreatedAt: entry.CreatedAt,
		}
		if entry.Analysis != nil {
			item.Analysis = &AnalysisResponse{
				Emotion:    entry.Analysis.Emotion,
				Confidence: entry.Analysis.Confidence,
				StatusText: entry.Analysis.StatusText,
			}
		}
		resp = append(resp, item)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": resp})
}

func (h *JournalHandler) Scan(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserID(r.Context()); !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.ImageBase64 == "" {
		http.Error(w, "No image data provided", http.StatusBadRequest)
		return
	}

	text, err := h.journalService.ScanImage(r.Context(), req.ImageBase64)
	if err != nil {
		log.Printf("ERROR [journal.Scan] %v", err)
		http.Error(w, "AI scanning failed", http.StatusInternalServerError)
		return
	}

	if text == "" {
		http.Error(w, "No text was detected in the image", http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}
