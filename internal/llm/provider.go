package llm

import (
	"context"
	"errors"
)

// Request is a single prompt sent to a provider.
type Request struct {
	System    string
	Prompt    string
	RequestID string
	Operation string
	// JSON asks the provider to constrain its output to a JSON document.
	JSON bool
}

type Metadata struct {
	ProcessingTime int    `json:"processingTime"`
	Provider       string `json:"provider"`
	Model          string `json:"model"`
	Operation      string `json:"operation"`
}

type Response struct {
	Content   string   `json:"content"`
	RequestID string   `json:"requestId"`
	Metadata  Metadata `json:"metadata"`
}

// defines the interface for LLM providers
type Provider interface {
	GenerateContent(ctx context.Context, req Request) (*Response, error)
	GetProviderName() string
}

// represents an error from an LLM provider
type ProviderError struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + " error: " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + " error: " + e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeAPIKey       = "invalid_api_key"
	ErrCodeRateLimit    = "rate_limit_exceeded"
	ErrCodeServiceDown  = "service_unavailable"
	ErrCodeInvalidInput = "invalid_input"
	ErrCodeTimeout      = "timeout"
)

// ErrorCode returns the provider error code in err's chain, or "" if none.
func ErrorCode(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// Retryable reports whether a failure is transient on the provider side.
func Retryable(err error) bool {
	switch ErrorCode(err) {
	case ErrCodeRateLimit, ErrCodeServiceDown:
		return true
	}
	return false
}

// ClassifyContextError maps a context failure to a provider error code.
func ClassifyContextError(err error) (string, bool) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrCodeTimeout, true
	case errors.Is(err, context.Canceled):
		return ErrCodeTimeout, true
	}
	return "", false
}
