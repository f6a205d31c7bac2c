package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"legalchat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

func TestChatStreamParsesSSE(t *testing.T) {
	var gotReq openaiChatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		json.NewDecoder(r.Body).Decode(&gotReq)

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, delta := range []string{"Hello", ", ", "world"} {
			fmt.Fprintf(w, "data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", delta)
			flusher.Flush()
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	provider := NewOpenAIProvider("test-key", srv.URL, "gpt-4")
	chunks, errs := provider.ChatStream(context.Background(), []llm.Message{
		{Role: "user", Content: "say hello"},
	}, llm.WithTemperature(0), llm.WithMaxTokens(64))

	var full string
	for chunk := range chunks {
		full += chunk
	}
	assert.NoError(t, <-errs)
	assert.Equal(t, "Hello, world", full)

	assert.True(t, gotReq.Stream)
	assert.Equal(t, "gpt-4", gotReq.Model)
	assert.Equal(t, 64, gotReq.MaxTokens)
	// An explicit temperature of zero must survive serialization.
	if assert.NotNil(t, gotReq.Temperature) {
		assert.Equal(t, 0.0, *gotReq.Temperature)
	}
}

func TestChatStreamSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	provider := NewOpenAIProvider("test-key", srv.URL, "gpt-4")
	chunks, errs := provider.ChatStream(context.Background(), []llm.Message{
		{Role: "user", Content: "hi"},
	})

	for range chunks {
		t.Error("expected no chunks from a failed request")
	}
	err := <-errs
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestChatMapsModelRoleToAssistant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openaiChatRequest
		json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, "assistant", req.Messages[1].Role)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "done"}},
			},
		})
	}))
	defer srv.Close()

	provider := NewOpenAIProvider("test-key", srv.URL, "gpt-4")
	got, err := provider.Chat(context.Background(), []llm.Message{
		{Role: "user", Content: "hi"},
		{Role: "model", Content: "earlier reply"},
	})
	assert.NoError(t, err)
	assert.Equal(t, "done", got)
}
