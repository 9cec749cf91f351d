package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DefaultChatURL is the OpenRouter API root.
const DefaultChatURL = "https://openrouter.ai/api/v1"

// ChatConfig carries the credentials and attribution headers for OpenRouter.
type ChatConfig struct {
	APIKey  string
	Referer string
	Title   string
	Timeout time.Duration
}

// ChatMessage is one turn of an OpenAI-compatible conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the chat/completions request body.
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

// ChatChoice is one completion alternative.
type ChatChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// ChatResponse is the decoded reply. Raw keeps the payload for diagnostics.
type ChatResponse struct {
	ID      string          `json:"id"`
	Model   string          `json:"model"`
	Choices []ChatChoice    `json:"choices"`
	Error   json.RawMessage `json:"error"`
	Raw     json.RawMessage `json:"-"`
}

// ErrorMessage returns the message of an explicit "error" field, if any.
// An error object without a message yields "Unknown error".
func (r *ChatResponse) ErrorMessage() (string, bool) {
	if r == nil || len(r.Error) == 0 || string(r.Error) == "null" {
		return "", false
	}
	if msg, ok := errorMessage(r.Error); ok {
		return msg, true
	}
	return "Unknown error", true
}

// ChatClient posts chat completions to OpenRouter.
type ChatClient struct {
	base
	cfg ChatConfig
}

// NewChatClient builds a chat client.
func NewChatClient(cfg ChatConfig, opts ...Option) *ChatClient {
	return &ChatClient{
		base: newBase(UpstreamChat, DefaultChatURL, cfg.Timeout, opts),
		cfg:  cfg,
	}
}

// Complete sends req and returns the decoded response. Transport failures,
// non-2xx statuses and undecodable bodies are returned as errors; a 2xx body
// carrying an "error" field is returned as a response for the caller to inspect.
func (c *ChatClient) Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if c.cfg.APIKey == "" {
		return nil, errors.New("chat api key must not be empty")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if c.cfg.Referer != "" {
		httpReq.Header.Set("HTTP-Referer", c.cfg.Referer)
	}
	if c.cfg.Title != "" {
		httpReq.Header.Set("X-Title", c.cfg.Title)
	}

	var resp ChatResponse
	raw, err := c.do(httpReq, &resp)
	if err != nil {
		return nil, err
	}
	resp.Raw = json.RawMessage(bytes.TrimSpace(raw))
	return &resp, nil
}
