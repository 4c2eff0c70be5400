// Package openai talks to any OpenAI-compatible chat completions endpoint.
package openai

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"prepcoach/internal/llm"
)

const providerName = "openai"

type Client struct {
	http   *resty.Client
	config *Config
}

func NewClient(config *Config) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(config.BaseURL).
			SetAuthToken(config.APIKey).
			SetHeader("Content-Type", "application/json"),
		config: config,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (c *Client) GenerateContent(ctx context.Context, req llm.Request) (*llm.Response, error) {
	startTime := time.Now()

	messages := make([]message, 0, 2)
	if req.System != "" {
		messages = append(messages, message{Role: "system", Content: req.System})
	}
	messages = append(messages, message{Role: "user", Content: req.Prompt})

	body := map[string]any{
		"model":       c.config.Model,
		"messages":    messages,
		"temperature": 0.7,
	}
	if req.JSON {
		body["response_format"] = map[string]string{"type": "json_object"}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		code := llm.ErrCodeServiceDown
		if ctxCode, ok := llm.ClassifyContextError(err); ok {
			code = ctxCode
		}
		return nil, &llm.ProviderError{Provider: providerName, Code: code, Message: "request failed", Err: err}
	}

	if resp.IsError() {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     statusCode(resp.StatusCode()),
			Message:  "unexpected status " + resp.Status() + ": " + gjson.Get(resp.String(), "error.message").String(),
		}
	}

	text := gjson.Get(resp.String(), "choices.0.message.content").String()
	if strings.TrimSpace(text) == "" {
		return nil, &llm.ProviderError{Provider: providerName, Code: llm.ErrCodeInvalidInput, Message: "no response from LLM"}
	}

	model := gjson.Get(resp.String(), "model").String()
	if model == "" {
		model = c.config.Model
	}

	return &llm.Response{
		Content:   text,
		RequestID: req.RequestID,
		Metadata: llm.Metadata{
			ProcessingTime: int(time.Since(startTime).Milliseconds()),
			Provider:       providerName,
			Model:          model,
			Operation:      req.Operation,
		},
	}, nil
}

func (c *Client) GetProviderName() string {
	return providerName
}

func statusCode(status int) string {
	switch {
	case status == http.StatusTooManyRequests:
		return llm.ErrCodeRateLimit
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return llm.ErrCodeAPIKey
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return llm.ErrCodeTimeout
	case status >= 500:
		return llm.ErrCodeServiceDown
	}
	return llm.ErrCodeInvalidInput
}
