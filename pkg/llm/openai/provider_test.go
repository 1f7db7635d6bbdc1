package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reletz/cornelius/pkg/llm"
)

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]any
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			msgs, _ := req["messages"].([]any)
			if assert.NotEmpty(t, msgs) {
				first := msgs[0].(map[string]any)
				assert.Equal(t, "user", first["role"])
			}
		}

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestChatReturnsContent(t *testing.T) {
	content := strings.Repeat("note ", 30)
	srv := chatServer(t, content)
	defer srv.Close()

	p := NewOpenAIProvider("test-key", srv.URL, "test-model")
	got, err := p.Generate(context.Background(), "make notes")
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestChatRejectsShortResponse(t *testing.T) {
	srv := chatServer(t, strings.Repeat("x", 40))
	defer srv.Close()

	p := NewOpenAIProvider("test-key", srv.URL, "test-model")
	_, err := p.Generate(context.Background(), "make notes")

	var malformed *llm.MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 40, malformed.Length)
	assert.Equal(t, 100, malformed.MinLength)
}

func TestChatMissingAPIKey(t *testing.T) {
	p := NewOpenAIProvider("", "http://localhost:1", "test-model")
	_, err := p.Generate(context.Background(), "make notes")

	var confErr *llm.ConfigurationError
	require.ErrorAs(t, err, &confErr)
}

func TestChatAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"bad key"}}`)
	}))
	defer srv.Close()

	p := NewOpenAIProvider("test-key", srv.URL, "test-model")
	_, err := p.Generate(context.Background(), "make notes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestChatStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			assert.Equal(t, true, req["stream"])
		}

		w.Header().Set("Content-Type", "text/event-stream")
		deltas := []string{"> [!cornell]", " Topic\n", "> content"}
		for _, d := range deltas {
			frame, _ := json.Marshal(map[string]any{
				"choices": []map[string]any{
					{"delta": map[string]any{"content": d}},
				},
			})
			fmt.Fprintf(w, "data: %s\n\n", frame)
		}
		fmt.Fprint(w, ": keep-alive\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	p := NewOpenAIProvider("test-key", srv.URL, "test-model")

	var chunks []string
	full, err := p.ChatStream(context.Background(),
		[]llm.Message{{Role: "user", Content: "make notes"}},
		func(chunk string) { chunks = append(chunks, chunk) })

	require.NoError(t, err)
	assert.Equal(t, "> [!cornell] Topic\n> content", full)
	assert.Equal(t, []string{"> [!cornell]", " Topic\n", "> content"}, chunks)
}

// Short streamed output is accepted; the length guard only applies to
// non-streaming calls.
func TestChatStreamAcceptsShortOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"ok\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	p := NewOpenAIProvider("test-key", srv.URL, "test-model")
	full, err := p.ChatStream(context.Background(),
		[]llm.Message{{Role: "user", Content: "hi"}}, nil)

	require.NoError(t, err)
	assert.Equal(t, "ok", full)
}

func TestWrapTransportErrTimeout(t *testing.T) {
	p := NewOpenAIProvider("test-key", "", "test-model")
	err := p.wrapTransportErr(context.DeadlineExceeded)

	var timeoutErr *llm.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
}

func TestWrapTransportErrNetwork(t *testing.T) {
	p := NewOpenAIProvider("test-key", "", "test-model")
	cause := errors.New("connection refused")
	err := p.wrapTransportErr(cause)

	var netErr *llm.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.ErrorIs(t, err, cause)
}
