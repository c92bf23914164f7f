package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// FakeAIEngine stands in for the emotion/chat engine in tests. Behavior is
// mutable so a single test server can exercise both the happy path and
// engine outages.
type FakeAIEngine struct {
	server *httptest.Server

	mu         sync.Mutex
	down       bool
	reply      string
	emotion    string
	confidence float64
	statusText string
}

func NewFakeAIEngine(t *testing.T) *FakeAIEngine {
	t.Helper()

	f := &FakeAIEngine{
		reply:      "That sounds like a lot to carry. Want to tell me more?",
		emotion:    "joy",
		confidence: 0.9,
		statusText: "Joy 😊",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/chat", f.handleChat)
	mux.HandleFunc("/analyze", f.handleAnalyze)
	mux.HandleFunc("/ocr", f.handleOCR)

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)

	return f
}

func (f *FakeAIEngine) URL() string {
	return f.server.URL
}

// SetDown makes every endpoint return 500 until reset.
func (f *FakeAIEngine) SetDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

// SetReply changes the canned chat reply.
func (f *FakeAIEngine) SetReply(reply string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reply = reply
}

// SetAnalysis changes the canned emotion verdict.
func (f *FakeAIEngine) SetAnalysis(emotion, statusText string, confidence float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emotion = emotion
	f.statusText = statusText
	f.confidence = confidence
}

func (f *FakeAIEngine) unavailable(w http.ResponseWriter) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		http.Error(w, "engine down", http.StatusInternalServerError)
		return true
	}
	return false
}

func (f *FakeAIEngine) handleChat(w http.ResponseWriter, r *http.Request) {
	if f.unavailable(w) {
		return
	}
	f.mu.Lock()
	reply := f.reply
	f.mu.Unlock()
	json.NewEncoder(w).Encode(map[string]string{"reply": reply})
}

func (f *FakeAIEngine) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if f.unavailable(w) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	json.NewEncoder(w).Encode(map[string]interface{}{
		"emotion":     f.emotion,
		"emoji":       "😊",
		"confidence":  f.confidence,
		"status_text": f.statusText,
	})
}

func (f *FakeAIEngine) handleOCR(w http.ResponseWriter, r *http.Request) {
	if f.unavailable(w) {
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"text": "extracted text"})
}
