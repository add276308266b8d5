// Package claude implements a critique.Backend on the Anthropic Messages API.
package claude

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/vidgrade"
	"github.com/fwojciec/vidgrade/critique"
)

// Compile-time interface verification.
var _ critique.Backend = (*Client)(nil)

const (
	// Platform is the platform identifier of this backend.
	Platform = "claude"
	// DefaultModel is used when no model is configured.
	DefaultModel = "claude-3-5-sonnet-20241022"
	// DefaultBaseURL is the Anthropic API root.
	DefaultBaseURL = "https://api.anthropic.com"
	// APIVersion is sent in the anthropic-version header.
	APIVersion = "2023-06-01"
	// MaxTokens bounds the reply length.
	MaxTokens = 2000
)

// Client calls the Anthropic Messages API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithModel overrides the model.
func WithModel(m string) Option {
	return func(c *Client) {
		if m != "" {
			c.model = m
		}
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a Client with the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		model:      DefaultModel,
		baseURL:    DefaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the platform identifier.
func (c *Client) Name() string { return Platform }

// Model returns the configured model.
func (c *Client) Model() string { return c.model }

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// buildRequest lays out frames as base64 image blocks followed by one text
// block, all in a single user message.
func (c *Client) buildRequest(frames []vidgrade.KeyFrame, prompt string) messagesRequest {
	blocks := make([]contentBlock, 0, len(frames)+1)
	for _, f := range frames {
		blocks = append(blocks, contentBlock{
			Type: "image",
			Source: &imageSource{
				Type:      "base64",
				MediaType: f.MIMEType,
				Data:      base64.StdEncoding.EncodeToString(f.Data),
			},
		})
	}
	blocks = append(blocks, contentBlock{Type: "text", Text: prompt})

	return messagesRequest{
		Model:     c.model,
		MaxTokens: MaxTokens,
		Messages:  []message{{Role: "user", Content: blocks}},
	}
}

// Complete sends one Messages API request and returns the first text block.
func (c *Client) Complete(ctx context.Context, frames []vidgrade.KeyFrame, prompt string) (string, error) {
	body, err := json.Marshal(c.buildRequest(frames, prompt))
	if err != nil {
		return "", fmt.Errorf("claude: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("claude: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", APIVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("claude: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("claude: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &vidgrade.APIError{
			Platform:   Platform,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(respBody),
		}
	}

	var mr messagesResponse
	if err := json.Unmarshal(respBody, &mr); err != nil {
		return "", fmt.Errorf("claude: decode response: %w", err)
	}
	for _, block := range mr.Content {
		if block.Type == "text" || block.Type == "" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("claude: response has no text content")
}

func errorMessage(body []byte) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error.Message != "" {
		return er.Error.Message
	}
	return strings.TrimSpace(string(body))
}
