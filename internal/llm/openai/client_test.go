package openai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"prepcoach/internal/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newStubClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(&Config{APIKey: "sk-test", BaseURL: server.URL, Model: "gpt-test"})
}

func TestClientGenerateContentSuccess(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "gpt-test", gjson.GetBytes(body, "model").String())
		assert.Equal(t, "system", gjson.GetBytes(body, "messages.0.role").String())
		assert.Equal(t, "grade this", gjson.GetBytes(body, "messages.1.content").String())
		assert.Equal(t, "json_object", gjson.GetBytes(body, "response_format.type").String())

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"gpt-test-0613","choices":[{"message":{"role":"assistant","content":"{\"score\":80}"}}]}`))
	})

	resp, err := client.GenerateContent(context.Background(), llm.Request{
		System: "you grade answers", Prompt: "grade this", RequestID: "r1", Operation: "evaluate_answer", JSON: true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"score":80}`, resp.Content)
	assert.Equal(t, "gpt-test-0613", resp.Metadata.Model)
	assert.Equal(t, "openai", resp.Metadata.Provider)
}

func TestClientGenerateContentStatusErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		code   string
	}{
		{"rate limit", http.StatusTooManyRequests, llm.ErrCodeRateLimit},
		{"unauthorized", http.StatusUnauthorized, llm.ErrCodeAPIKey},
		{"server error", http.StatusBadGateway, llm.ErrCodeServiceDown},
		{"bad request", http.StatusBadRequest, llm.ErrCodeInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(`{"error":{"message":"nope"}}`))
			})
			_, err := client.GenerateContent(context.Background(), llm.Request{Prompt: "x"})
			require.Error(t, err)
			assert.Equal(t, tc.code, llm.ErrorCode(err))
		})
	}
}

func TestClientGenerateContentEmptyChoice(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})
	_, err := client.GenerateContent(context.Background(), llm.Request{Prompt: "x"})
	assert.Equal(t, llm.ErrCodeInvalidInput, llm.ErrorCode(err))
}

func TestClientGenerateContentTimeout(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.GenerateContent(ctx, llm.Request{Prompt: "x"})
	assert.Equal(t, llm.ErrCodeTimeout, llm.ErrorCode(err))
}

func TestNewConfig(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := NewConfig()
	assert.Error(t, err)

	t.Setenv("OPENAI_API_KEY", "k")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:8080/v1/")
	t.Setenv("OPENAI_MODEL", "")
	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/v1", cfg.BaseURL)
	assert.Equal(t, "gpt-4o", cfg.Model)
}
