/*
Package ai talks to the hosted Gemini endpoint and turns its free-text
replies into FoodRecord estimates. Every entry point resolves to either a
model-derived estimate or a deterministic fallback; terminal failures are
additionally signaled as distinguishable error conditions.
*/
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models/"
	geminiModel    = "gemini-2.0-flash"

	maxAttempts    = 3
	initialBackoff = 250 * time.Millisecond
	requestTimeout = 9 * time.Second
)

// --- Structs for the Gemini API request/response ---

type geminiPayload struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Client is a thin Gemini HTTP client with a bounded retry loop. The
// backoff function is injectable so delay policy stays testable.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	backoff    func(attempt int) time.Duration
	log        zerolog.Logger
}

// NewClient reads GEMINI_API_KEY from the environment. The key is carried
// only in the request URL and never logged.
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     os.Getenv("GEMINI_API_KEY"),
		httpClient: &http.Client{Timeout: requestTimeout + time.Second},
		backoff: func(attempt int) time.Duration {
			return initialBackoff << attempt // 250ms, 500ms, ...
		},
		log: log.With().Str("component", "gemini").Logger(),
	}
}

// generate sends one prompt and returns the raw text of the first reply
// candidate. Only HTTP 503 is retried; everything else is terminal.
func (c *Client) generate(ctx context.Context, payload geminiPayload) (string, error) {
	if c.apiKey == "" {
		c.log.Error().Msg("GEMINI_API_KEY is not set")
		return "", fmt.Errorf("ai is not configured: %w", ErrUnprocessable)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	endpoint := c.baseURL + geminiModel + ":generateContent?key=" + c.apiKey

	for attempt := 0; attempt < maxAttempts; attempt++ {
		text, retryable, err := c.attempt(ctx, endpoint, body)
		if err == nil {
			return text, nil
		}
		if !retryable {
			return "", err
		}
		c.log.Warn().Err(err).Int("attempt", attempt+1).Msg("gemini call failed, backing off")
		if attempt < maxAttempts-1 {
			select {
			case <-time.After(c.backoff(attempt)):
			case <-ctx.Done():
				return "", fmt.Errorf("canceled during backoff: %w", ErrTimedOut)
			}
		}
	}
	return "", fmt.Errorf("gave up after %d attempts: %w", maxAttempts, ErrOverloaded)
}

// attempt performs a single request. retryable is true only for 503.
func (c *Client) attempt(ctx context.Context, endpoint string, body []byte) (string, bool, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || reqCtx.Err() != nil {
			return "", false, fmt.Errorf("request deadline exceeded: %w", ErrTimedOut)
		}
		return "", false, fmt.Errorf("request failed: %w", ErrUnprocessable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		io.Copy(io.Discard, resp.Body)
		return "", true, ErrOverloaded
	case resp.StatusCode != http.StatusOK:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.log.Warn().Int("status", resp.StatusCode).Bytes("body", respBody).Msg("gemini returned an error")
		return "", false, fmt.Errorf("status %d: %w", resp.StatusCode, ErrUnprocessable)
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", false, fmt.Errorf("decode response: %w", ErrUnprocessable)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", false, fmt.Errorf("empty reply: %w", ErrUnprocessable)
	}
	return parsed.Candidates[0].Content.Parts[0].Text, false, nil
}

// GenerateText runs a plain text prompt through the model.
func (c *Client) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.generate(ctx, geminiPayload{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}},
		Contents:          []geminiContent{{Parts: []geminiPart{{Text: userPrompt}}}},
	})
}

// GenerateAdvice produces short dietary advice for a goal and intake.
func (c *Client) GenerateAdvice(ctx context.Context, goal string, actualCalories float64) (string, error) {
	prompt := fmt.Sprintf("目標: %s\n今日の摂取カロリー: %.0f kcal", goal, actualCalories)
	return c.GenerateText(ctx, adviceSystemPrompt, prompt)
}

// GenerateVision runs a prompt plus an inline image through the model.
func (c *Client) GenerateVision(ctx context.Context, systemPrompt, userPrompt string, imageB64, mimeType string) (string, error) {
	return c.generate(ctx, geminiPayload{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}},
		Contents: []geminiContent{{Parts: []geminiPart{
			{Text: userPrompt},
			{InlineData: &inlineData{MimeType: mimeType, Data: imageB64}},
		}}},
	})
}
