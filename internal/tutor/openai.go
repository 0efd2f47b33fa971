package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultOpenAIBaseURL = "https://api.openai.com"

// OpenAIResponder calls the Chat Completions API.
type OpenAIResponder struct {
	apiKey    string
	model     string
	maxTokens int
	baseURL   string
	client    *http.Client
}

// NewOpenAIResponder returns a responder for model. An empty baseURL uses the
// public API.
func NewOpenAIResponder(apiKey, model string, maxTokens int, baseURL string, client *http.Client) *OpenAIResponder {
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	if client == nil {
		client = &http.Client{}
	}
	return &OpenAIResponder{
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    client,
	}
}

func (r *OpenAIResponder) Name() string { return "openai" }

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model     string              `json:"model"`
	Messages  []completionMessage `json:"messages"`
	MaxTokens int                 `json:"max_tokens,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message completionMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Respond sends the prompt and returns the first choice's content.
func (r *OpenAIResponder) Respond(ctx context.Context, p Prompt) (string, error) {
	if r.apiKey == "" {
		return "", errors.New("openai: missing API key")
	}

	body, err := json.Marshal(completionRequest{
		Model:     r.model,
		Messages:  r.messages(p),
		MaxTokens: r.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", fmt.Errorf("openai: read response: %w", err)
	}

	var parsed completionResponse
	jsonErr := json.Unmarshal(respBody, &parsed)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if jsonErr == nil && parsed.Error != nil {
			return "", fmt.Errorf("openai: status=%d %s: %s", resp.StatusCode, parsed.Error.Type, parsed.Error.Message)
		}
		return "", fmt.Errorf("openai: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	if jsonErr != nil {
		return "", fmt.Errorf("openai: parse response: %w", jsonErr)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func (r *OpenAIResponder) messages(p Prompt) []completionMessage {
	// Study tasks are one-shot prompts with no persona or history.
	if p.Task != "" {
		return []completionMessage{{Role: "user", Content: p.Question}}
	}

	msgs := make([]completionMessage, 0, len(p.History)+2)
	if p.System != "" {
		msgs = append(msgs, completionMessage{Role: "system", Content: p.System})
	}
	for _, m := range p.History {
		msgs = append(msgs, completionMessage{Role: m.Role, Content: m.Content})
	}
	msgs = append(msgs, completionMessage{Role: "user", Content: questionWithNotes(p.Question, p.Notes)})
	return msgs
}
