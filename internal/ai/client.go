// Package ai is the HTTP client for the emotion/chat engine. Callers treat
// every operation as best-effort: failures are reported, never fatal.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds every engine call.
const DefaultTimeout = 60 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Analysis is the engine's emotion verdict for a piece of text.
type Analysis struct {
	Emotion    string  `json:"emotion"`
	Emoji      string  `json:"emoji"`
	Confidence float64 `json:"confidence"`
	StatusText string  `json:"status_text"`

	// Raw is the undecoded engine payload, kept for storage.
	Raw json.RawMessage `json:"-"`
}

// Chat sends one user message and returns the engine's reply.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	var out struct {
		Reply string `json:"reply"`
	}
	if _, err := c.post(ctx, "/chat", map[string]string{"message": message}, &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}

// AnalyzeEmotion classifies the dominant emotion of text.
func (c *Client) AnalyzeEmotion(ctx context.Context, text string) (*Analysis, error) {
	var out Analysis
	raw, err := c.post(ctx, "/analyze", map[string]string{"text": text}, &out)
	if err != nil {
		return nil, err
	}
	out.Raw = raw
	return &out, nil
}

// ExtractText runs OCR over a base64-encoded image and returns the text
// found in it.
func (c *Client) ExtractText(ctx context.Context, imageBase64 string) (string, error) {
	var out struct {
		Text string `json:"text"`
	}
	if _, err := c.post(ctx, "/ocr", map[string]string{"image": imageBase64}, &out); err != nil {
		return "", err
	}
	return out.Text, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ai engine unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ai engine returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("ai engine returned invalid JSON: %w", err)
	}

	return raw, nil
}
