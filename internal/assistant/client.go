// Package assistant implements a thin HTTP client for the hosted Assistants
// API (v2 wire protocol) and the run-polling cycle used to obtain replies.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/soyeahso/wabridge/internal/logging"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"

	// BetaVersion is the Assistants API generation this client speaks,
	// sent as the OpenAI-Beta header and reported by the health check.
	BetaVersion = "v2"
)

// ClientConfig holds credentials and endpoint settings for the API client.
type ClientConfig struct {
	APIKey      string
	AssistantID string
	BaseURL     string // defaults to the public API endpoint
	Model       string // optional model override passed on run creation
}

// Client is an HTTP client for the Assistants API.
type Client struct {
	apiKey      string
	assistantID string
	baseURL     string
	model       string
	httpClient  *http.Client
	log         *logging.Logger
}

// NewClient creates an Assistants API client.
func NewClient(cfg ClientConfig, log *logging.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:      cfg.APIKey,
		assistantID: cfg.AssistantID,
		baseURL:     baseURL,
		model:       cfg.Model,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		log:         log.Sub("assistant"),
	}
}

// AssistantID returns the configured assistant identifier.
func (c *Client) AssistantID() string { return c.assistantID }

// Run is an asynchronous invocation of the assistant against a thread.
type Run struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Assistant is the remote assistant descriptor.
type Assistant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Model string `json:"model"`
}

type thread struct {
	ID string `json:"id"`
}

type messageContent struct {
	Type string `json:"type"`
	Text struct {
		Value string `json:"value"`
	} `json:"text"`
}

type threadMessage struct {
	ID      string           `json:"id"`
	Role    string           `json:"role"`
	Content []messageContent `json:"content"`
}

type messageList struct {
	Data []threadMessage `json:"data"`
}

// CreateThread creates a new empty conversation thread and returns its ID.
func (c *Client) CreateThread(ctx context.Context) (string, error) {
	var t thread
	if err := c.do(ctx, http.MethodPost, "/threads", map[string]any{}, &t); err != nil {
		return "", fmt.Errorf("creating thread: %w", err)
	}
	c.log.Debug().Str("thread", t.ID).Msg("thread created")
	return t.ID, nil
}

// AddUserMessage appends a user-authored message to a thread.
func (c *Client) AddUserMessage(ctx context.Context, threadID, text string) error {
	body := map[string]any{
		"role":    "user",
		"content": text,
	}
	if err := c.do(ctx, http.MethodPost, "/threads/"+threadID+"/messages", body, nil); err != nil {
		return fmt.Errorf("appending message: %w", err)
	}
	return nil
}

// CreateRun starts a run of the configured assistant against a thread.
func (c *Client) CreateRun(ctx context.Context, threadID string) (Run, error) {
	body := map[string]any{
		"assistant_id": c.assistantID,
	}
	if c.model != "" {
		body["model"] = c.model
	}
	var run Run
	if err := c.do(ctx, http.MethodPost, "/threads/"+threadID+"/runs", body, &run); err != nil {
		return Run{}, fmt.Errorf("creating run: %w", err)
	}
	return run, nil
}

// GetRun retrieves the current state of a run.
func (c *Client) GetRun(ctx context.Context, threadID, runID string) (Run, error) {
	var run Run
	if err := c.do(ctx, http.MethodGet, "/threads/"+threadID+"/runs/"+runID, nil, &run); err != nil {
		return Run{}, fmt.Errorf("retrieving run: %w", err)
	}
	return run, nil
}

// LastMessage returns the text of the most recent message in a thread.
// Returns ErrEmptyResponse when the thread holds no messages or the newest
// message carries no text content.
func (c *Client) LastMessage(ctx context.Context, threadID string) (string, error) {
	var list messageList
	if err := c.do(ctx, http.MethodGet, "/threads/"+threadID+"/messages?order=desc&limit=1", nil, &list); err != nil {
		return "", fmt.Errorf("listing messages: %w", err)
	}
	if len(list.Data) == 0 || len(list.Data[0].Content) == 0 {
		return "", ErrEmptyResponse
	}
	return list.Data[0].Content[0].Text.Value, nil
}

// Assistant retrieves the remote assistant descriptor. Read-only; used by
// the health check to confirm reachability.
func (c *Client) Assistant(ctx context.Context) (Assistant, error) {
	var a Assistant
	if err := c.do(ctx, http.MethodGet, "/assistants/"+c.assistantID, nil, &a); err != nil {
		return Assistant{}, fmt.Errorf("retrieving assistant: %w", err)
	}
	return a, nil
}

// do executes one API call, decoding the JSON response into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("OpenAI-Beta", "assistants="+BetaVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("api non-success status=%d body=%s", resp.StatusCode, truncate(string(respBody), 400))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parsing response: %s", truncate(string(respBody), 400))
	}
	return nil
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
