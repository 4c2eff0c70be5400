package gemini

import (
	"context"
	"errors"
	"strings"
	"time"

	"google.golang.org/genai"

	"prepcoach/internal/llm"
)

const providerName = "gemini"

type Client struct {
	client *genai.Client
	config *Config
}

func NewClient(config *Config) (*Client, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeAPIKey,
			Message:  "Failed to create Gemini client",
			Err:      err,
		}
	}

	return &Client{client: client, config: config}, nil
}

func (c *Client) GenerateContent(ctx context.Context, req llm.Request) (*llm.Response, error) {
	startTime := time.Now()

	genConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.config.Temperature),
	}
	if req.System != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.JSON {
		genConfig.ResponseMIMEType = "application/json"
	}

	result, err := c.client.Models.GenerateContent(ctx, c.config.Model, genai.Text(req.Prompt), genConfig)
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     classify(err),
			Message:  "Failed to generate content",
			Err:      err,
		}
	}

	if result == nil || len(result.Candidates) == 0 {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeInvalidInput,
			Message:  "No response generated",
		}
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeInvalidInput,
			Message:  "Empty response generated",
		}
	}

	return &llm.Response{
		Content:   text,
		RequestID: req.RequestID,
		Metadata: llm.Metadata{
			ProcessingTime: int(time.Since(startTime).Milliseconds()),
			Provider:       providerName,
			Model:          c.config.Model,
			Operation:      req.Operation,
		},
	}, nil
}

func (c *Client) GetProviderName() string {
	return providerName
}

func classify(err error) string {
	if code, ok := llm.ClassifyContextError(err); ok {
		return code
	}
	if isRateLimitError(err) {
		return llm.ErrCodeRateLimit
	}
	switch apiErrorCode(err) {
	case 400:
		return llm.ErrCodeInvalidInput
	case 401, 403:
		return llm.ErrCodeAPIKey
	}
	return llm.ErrCodeServiceDown
}

func apiErrorCode(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code
	}
	return 0
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	if apiErrorCode(err) == 429 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(strings.ToLower(msg), "quota")
}
