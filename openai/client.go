// Package openai implements a critique.Backend on any OpenAI-compatible
// chat/completions endpoint.
package openai

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
	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4o"
	// DefaultBaseURL is the OpenAI API root.
	DefaultBaseURL = "https://api.openai.com/v1"
	// MaxTokens bounds the reply length.
	MaxTokens = 2000
	// Temperature is the sampling temperature sent with every request.
	Temperature = 1.0
)

// Client calls an OpenAI-compatible chat/completions endpoint. The same
// client serves openai, aihubmix and other gateways; only the platform name,
// base URL, model and key differ.
type Client struct {
	platform   string
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

// NewClient creates a Client reporting itself as platform.
func NewClient(platform, apiKey string, opts ...Option) *Client {
	c := &Client{
		platform:   platform,
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

// Name returns the platform identifier the client was built for.
func (c *Client) Name() string { return c.platform }

// Model returns the chat model requests are sent to.
func (c *Client) Model() string { return c.model }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// DataURL encodes a frame as a data: URL.
func DataURL(f vidgrade.KeyFrame) string {
	return "data:" + f.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
}

func (c *Client) buildRequest(frames []vidgrade.KeyFrame, prompt string) chatRequest {
	parts := make([]contentPart, 0, len(frames)+1)
	for _, f := range frames {
		parts = append(parts, contentPart{
			Type:     "image_url",
			ImageURL: &imageURL{URL: DataURL(f), Detail: "auto"},
		})
	}
	parts = append(parts, contentPart{Type: "text", Text: prompt})

	return chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: parts}},
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	}
}

// Complete sends one chat completion and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, frames []vidgrade.KeyFrame, prompt string) (string, error) {
	body, err := json.Marshal(c.buildRequest(frames, prompt))
	if err != nil {
		return "", fmt.Errorf("%s: encode request: %w", c.platform, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", c.platform, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: request failed: %w", c.platform, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s: read response: %w", c.platform, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &vidgrade.APIError{
			Platform:   c.platform,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(respBody),
		}
	}

	var cr chatResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", c.platform, err)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("%s: response has no choices", c.platform)
	}
	return cr.Choices[0].Message.Content, nil
}

func errorMessage(body []byte) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error.Message != "" {
		return er.Error.Message
	}
	return strings.TrimSpace(string(body))
}
