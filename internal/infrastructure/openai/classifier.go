package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/peerconnect/backend/internal/application"
)

const systemPrompt = "You are a strict moderation system. Only allow posts related to " +
	"academics, study, exams, notes, assignments, classes, or university topics. " +
	"Reject anything unrelated like food, dating, sports, politics, or entertainment. " +
	"Respond with either 'ALLOW' or 'REJECT'."

// Classifier implements application.Classifier by calling the OpenAI
// chat-completions API.
type Classifier struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// New creates a Classifier. baseURL defaults to the public API when empty.
func New(baseURL, apiKey, model string) *Classifier {
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Classifier{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
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

// Classify asks the model for an ALLOW/REJECT decision. Any transport or
// decode failure is returned as an error so the caller can fall back to
// the keyword filter.
func (c *Classifier) Classify(ctx context.Context, content string) (application.Verdict, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: content},
		},
		MaxTokens: 20,
	})
	if err != nil {
		return application.Verdict{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return application.Verdict{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return application.Verdict{}, fmt.Errorf("openai chat completions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return application.Verdict{}, fmt.Errorf("openai chat completions: status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return application.Verdict{}, fmt.Errorf("decode openai response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return application.Verdict{}, fmt.Errorf("openai response has no choices")
	}

	decision := strings.ToLower(strings.TrimSpace(parsed.Choices[0].Message.Content))
	allowed := strings.Contains(decision, "allow") && !strings.Contains(decision, "reject")

	reason := "Rejected by AI moderation"
	if allowed {
		reason = "Allowed by AI moderation"
	}
	return application.Verdict{Allowed: allowed, Reason: reason}, nil
}
