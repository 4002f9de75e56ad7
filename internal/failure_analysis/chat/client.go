package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Completer produces the next assistant message for a conversation.
type Completer interface {
	Complete(ctx context.Context, messages []Message, tools []Tool) (Message, error)
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	HTTP    *http.Client

	limiter *rate.Limiter
}

// NewClient allows requestsPerMinute calls per minute (burst 1); <= 0 disables throttling.
func NewClient(baseURL, apiKey, model string, requestsPerMinute int) *Client {
	lim := rate.NewLimiter(rate.Inf, 1)
	if requestsPerMinute > 0 {
		lim = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Model:   model,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
		limiter: lim,
	}
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Tools    []Tool    `json:"tools,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) Complete(ctx context.Context, messages []Message, tools []Tool) (Message, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Message{}, fmt.Errorf("llm rate limit: %w", err)
	}

	b, err := json.Marshal(completionRequest{Model: c.Model, Messages: messages, Tools: tools})
	if err != nil {
		return Message{}, fmt.Errorf("llm encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return Message{}, fmt.Errorf("llm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Message{}, fmt.Errorf("llm chat: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Message{}, fmt.Errorf("llm read: %w", err)
	}

	var out completionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return Message{}, fmt.Errorf("llm decode (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode >= 400 {
		msg := http.StatusText(resp.StatusCode)
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return Message{}, fmt.Errorf("llm error (status %d): %s", resp.StatusCode, msg)
	}
	if len(out.Choices) == 0 {
		return Message{}, fmt.Errorf("llm returned no choices")
	}

	msg := out.Choices[0].Message
	if msg.Role == "" {
		msg.Role = RoleAssistant
	}
	return msg, nil
}
