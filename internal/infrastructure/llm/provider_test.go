package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safespace/support-portal/internal/core/domain"
)

func TestNew_DisabledProviders(t *testing.T) {
	for _, cfg := range []Config{
		{},
		{Provider: "none", APIKey: "k"},
		{Provider: ProviderAnthropic},
		{Provider: ProviderGemini},
	} {
		p, closeFn, err := New(context.Background(), cfg)
		require.NoError(t, err)
		assert.Nil(t, p, "%+v", cfg)
		assert.NoError(t, closeFn())
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	_, closeFn, err := New(context.Background(), Config{Provider: "eliza", APIKey: "k"})
	assert.Error(t, err)
	assert.NotNil(t, closeFn)
}

func TestSplitLast(t *testing.T) {
	_, _, err := splitLast(nil)
	assert.ErrorIs(t, err, ErrEmptyConversation)

	_, _, err = splitLast([]domain.Turn{{Role: domain.RoleAssistant, Content: "hi"}})
	assert.ErrorIs(t, err, ErrEmptyConversation)

	history, last, err := splitLast([]domain.Turn{
		{Role: domain.RoleUser, Content: "a"},
		{Role: domain.RoleAssistant, Content: "b"},
		{Role: domain.RoleUser, Content: "c"},
	})
	require.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, "c", last.Content)
}

type messagesRequest struct {
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	System      []struct {
		Text string `json:"text"`
	} `json:"system"`
	Messages []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"messages"`
}

func anthropicServer(t *testing.T, status int, body string, got *messagesRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		if got != nil {
			_ = json.Unmarshal(raw, got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnthropic_Complete(t *testing.T) {
	var got messagesRequest
	srv := anthropicServer(t, http.StatusOK, `{
		"id": "msg_1", "type": "message", "role": "assistant", "model": "test-model",
		"content": [{"type": "text", "text": "Take a slow breath."}],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 10, "output_tokens": 5}
	}`, &got)

	p := NewAnthropic(Config{APIKey: "k", Model: "test-model", Temperature: 0.7, BaseURL: srv.URL})
	reply, err := p.Complete(context.Background(), "be kind", []domain.Turn{
		{Role: domain.RoleUser, Content: "hello"},
		{Role: domain.RoleAssistant, Content: "hi"},
		{Role: domain.RoleUser, Content: "I feel anxious"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Take a slow breath.", reply)

	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, maxReplyTokens, got.MaxTokens)
	assert.InDelta(t, 0.7, got.Temperature, 1e-9)
	require.Len(t, got.System, 1)
	assert.Equal(t, "be kind", got.System[0].Text)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, "assistant", got.Messages[1].Role)
	assert.Equal(t, "I feel anxious", got.Messages[2].Content[0].Text)
}

func TestAnthropic_ErrorStatus(t *testing.T) {
	srv := anthropicServer(t, http.StatusBadRequest,
		`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`, nil)

	p := NewAnthropic(Config{APIKey: "k", BaseURL: srv.URL})
	_, err := p.Complete(context.Background(), "", []domain.Turn{{Role: domain.RoleUser, Content: "hi"}})
	assert.Error(t, err)
}

func TestAnthropic_EmptyConversation(t *testing.T) {
	p := NewAnthropic(Config{APIKey: "k", BaseURL: "http://127.0.0.1:1"})
	_, err := p.Complete(context.Background(), "", nil)
	assert.ErrorIs(t, err, ErrEmptyConversation)
}
