package chatclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSendStreamsIntoCacheAndSettles(t *testing.T) {
	chatId := "11111111-1111-1111-1111-111111111111"

	var gotAuth string
	var gotBody SendRequest

	mux := http.NewServeMux()
	mux.HandleFunc("/api/message/v1", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		flusher := w.(http.Flusher)
		for _, chunk := range []string{"The answer ", "is 42."} {
			w.Write([]byte(chunk))
			flusher.Flush()
			time.Sleep(10 * time.Millisecond)
		}
	})
	mux.HandleFunc("/api/chat/v1/"+chatId+"/messages", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(messagesPage{
			Messages: []CachedMessage{
				{Id: "m2", Text: "The answer is 42.", IsUserMessage: false, CreatedAt: time.Now()},
				{Id: "m1", Text: "what is the answer?", IsUserMessage: true, CreatedAt: time.Now()},
			},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL, "test-token")
	err := client.Send(context.Background(), SendRequest{
		Message:  "what is the answer?",
		ChatType: "RESEARCH",
		ChatId:   chatId,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "what is the answer?", gotBody.Message)

	// Settle refetch replaced the provisional rows with server ids.
	msgs := client.Cache().Messages(chatId)
	assert.Len(t, msgs, 2)
	assert.Equal(t, "m2", msgs[0].Id)
	assert.Equal(t, "The answer is 42.", msgs[0].Text)
	assert.False(t, client.IsLoading(chatId))
}

func TestSendRollsBackOnServerError(t *testing.T) {
	chatId := "22222222-2222-2222-2222-222222222222"

	mux := http.NewServeMux()
	mux.HandleFunc("/api/message/v1", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	// The settle refetch fails too, so the restored cache stays put.
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL, "test-token")
	client.Cache().SetFirstPage(chatId, Page{Messages: []CachedMessage{
		{Id: "m1", Text: "earlier message", IsUserMessage: true},
	}})

	err := client.Send(context.Background(), SendRequest{
		Message:  "this will fail",
		ChatType: "RESEARCH",
		ChatId:   chatId,
	})
	assert.Error(t, err)

	msgs := client.Cache().Messages(chatId)
	assert.Len(t, msgs, 1)
	assert.Equal(t, "earlier message", msgs[0].Text)
	assert.False(t, client.IsLoading(chatId))
}

func TestStaleRefreshDoesNotClobberSend(t *testing.T) {
	chatId := "77777777-7777-7777-7777-777777777777"

	entered := make(chan struct{})
	release := make(chan struct{})
	var fetches int32

	mux := http.NewServeMux()
	mux.HandleFunc("/api/message/v1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("reply"))
	})
	mux.HandleFunc("/api/chat/v1/"+chatId+"/messages", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&fetches, 1) == 1 {
			// Background refresh that started before the send but
			// resolves after it.
			close(entered)
			<-release
			json.NewEncoder(w).Encode(messagesPage{
				Messages: []CachedMessage{{Id: "stale", Text: "pre-send page"}},
			})
			return
		}
		json.NewEncoder(w).Encode(messagesPage{
			Messages: []CachedMessage{
				{Id: "m2", Text: "reply", IsUserMessage: false},
				{Id: "m1", Text: "question", IsUserMessage: true},
			},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL, "test-token")

	staleDone := make(chan error, 1)
	go func() {
		_, err := client.FetchMessages(context.Background(), chatId, "", 10, nil)
		staleDone <- err
	}()
	<-entered

	err := client.Send(context.Background(), SendRequest{
		Message:  "question",
		ChatType: "RESEARCH",
		ChatId:   chatId,
	})
	assert.NoError(t, err)

	close(release)
	assert.NoError(t, <-staleDone)

	// The settled page survives; the stale response was discarded.
	msgs := client.Cache().Messages(chatId)
	assert.Len(t, msgs, 2)
	assert.Equal(t, "m2", msgs[0].Id)
	for _, msg := range msgs {
		assert.NotEqual(t, "stale", msg.Id)
	}
}

func TestNewChatReturnsId(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat/v1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var req newChatRequest
		json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, "RESEARCH", req.ChatType)
		json.NewEncoder(w).Encode(newChatResponse{ChatId: "33333333-3333-3333-3333-333333333333"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL, "test-token")
	id, err := client.NewChat(context.Background(), "", "first question", "RESEARCH")
	assert.NoError(t, err)
	assert.Equal(t, "33333333-3333-3333-3333-333333333333", id)
}

func TestDeleteChatInvalidatesCache(t *testing.T) {
	chatId := "44444444-4444-4444-4444-444444444444"

	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat/v1/"+chatId, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL, "test-token")
	client.Cache().SetFirstPage(chatId, Page{Messages: []CachedMessage{{Id: "m1", Text: "hi"}}})

	err := client.DeleteChat(context.Background(), chatId, "")
	assert.NoError(t, err)
	assert.Empty(t, client.Cache().Messages(chatId))
}

func TestFetchMessagesPaginates(t *testing.T) {
	chatId := "55555555-5555-5555-5555-555555555555"
	olderCursor := "66666666-6666-6666-6666-666666666666"

	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat/v1/"+chatId+"/messages", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("cursor") == "" {
			json.NewEncoder(w).Encode(messagesPage{
				Messages:   []CachedMessage{{Id: "new", Text: "newest"}},
				NextCursor: &olderCursor,
			})
			return
		}
		json.NewEncoder(w).Encode(messagesPage{
			Messages: []CachedMessage{{Id: "old", Text: "oldest"}},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL, "test-token")

	cursor, err := client.FetchMessages(context.Background(), chatId, "", 10, nil)
	assert.NoError(t, err)
	assert.Equal(t, olderCursor, *cursor)

	cursor, err = client.FetchMessages(context.Background(), chatId, "", 10, cursor)
	assert.NoError(t, err)
	assert.Nil(t, cursor)

	msgs := client.Cache().Messages(chatId)
	assert.Len(t, msgs, 2)
	assert.Equal(t, "newest", msgs[0].Text)
	assert.Equal(t, "oldest", msgs[1].Text)
}
