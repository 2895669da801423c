package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	ErrMissingAPIKey = errors.New("OpenAI API key not configured")
	ErrEmptyChoices  = errors.New("Empty OpenAI response")
)

// ProviderError is a non-2xx answer from the completion endpoint
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("OpenAI API returned %d: %s", e.StatusCode, e.Body)
}

// OpenAIClient wraps the Chat Completions API. Model and temperature are
// fixed at construction; every call is a single attempt.
type OpenAIClient struct {
	apiKey      string
	url         string
	model       string
	temperature float64
	client      *http.Client
}

func NewOpenAIClient(apiKey, url, model string, temperature float64, timeout time.Duration) *OpenAIClient {
	return &OpenAIClient{
		apiKey:      apiKey,
		url:         url,
		model:       model,
		temperature: temperature,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// ── OpenAI API request/response types ─────────────────

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends prompt as a single user message and returns the first
// choice's content, trimmed.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: c.temperature,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	log.Info().
		Str("model", c.model).
		Int("status", resp.StatusCode).
		Int("promptLen", len(prompt)).
		Dur("latency", time.Since(start)).
		Msg("OpenAI completion finished")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ProviderError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("parsing OpenAI response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", ErrEmptyChoices
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}
