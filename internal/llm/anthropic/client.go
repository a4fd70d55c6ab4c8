// Package anthropic implements llm.Client against the Anthropic Messages
// API, non-streaming.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	clierr "github.com/suisage/suisage/internal/errors"
	"github.com/suisage/suisage/internal/llm"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	defaultModel     = "claude-3-5-sonnet-latest"
	defaultMaxTokens = 1024
	apiVersion       = "2023-06-01"
	messagesPath     = "/v1/messages"
)

// Interface compliance check.
var _ llm.Client = (*Client)(nil)

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type apiRequest struct {
	Model       string       `json:"model"`
	MaxTokens   int          `json:"max_tokens"`
	Temperature *float64     `json:"temperature,omitempty"`
	Messages    []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Content    []apiContentBlock `json:"content"`
	StopReason string            `json:"stop_reason"`
}

type apiContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type apiErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the prompt as a single user message and concatenates the
// text blocks of the reply.
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	body, err := c.buildRequestBody(req)
	if err != nil {
		return "", clierr.Wrap(clierr.CodeInternal, "encode model request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(body))
	if err != nil {
		return "", clierr.Wrap(clierr.CodeInternal, "build model request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", clierr.Wrap(clierr.CodeModelFailed, "model request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", parseHTTPError(resp)
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", clierr.Wrap(clierr.CodeModelFailed, "decode model response", err)
	}

	var sb strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", clierr.New(clierr.CodeModelFailed, "model returned empty response")
	}
	return text, nil
}

func (c *Client) buildRequestBody(req llm.Request) ([]byte, error) {
	model := req.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	apiReq := apiRequest{
		Model:     model,
		MaxTokens: maxTokens,
		Messages:  []apiMessage{{Role: "user", Content: req.Prompt}},
	}
	if req.Temperature > 0 {
		apiReq.Temperature = &req.Temperature
	}
	return json.Marshal(apiReq)
}

func parseHTTPError(resp *http.Response) error {
	buf, _ := io.ReadAll(resp.Body)
	var apiErr apiErrorResponse
	if err := json.Unmarshal(buf, &apiErr); err == nil && apiErr.Error.Message != "" {
		code := clierr.CodeModelFailed
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			code = clierr.CodeAuth
		case http.StatusTooManyRequests:
			code = clierr.CodeRateLimited
		}
		return clierr.New(code, fmt.Sprintf("anthropic: %s (%s)", apiErr.Error.Message, apiErr.Error.Type))
	}
	return clierr.New(clierr.CodeModelFailed, fmt.Sprintf("anthropic: unexpected status %d", resp.StatusCode))
}
