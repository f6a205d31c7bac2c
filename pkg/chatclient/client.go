package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Client is a thin SDK over the chat API with a local message cache.
// Sends are optimistic: the user message appears in the cache before the
// server confirms it, the assistant reply grows in place while it
// streams, and a failed send rolls the cache back to where it was.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client

	cache *MessageCache

	mu      sync.Mutex
	loading map[string]bool
	gen     map[string]uint64
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
		cache:   NewMessageCache(),
		loading: make(map[string]bool),
		gen:     make(map[string]uint64),
	}
}

// Cache exposes the local message cache for rendering.
func (c *Client) Cache() *MessageCache {
	return c.cache
}

// IsLoading reports whether a send is in flight for the chat.
func (c *Client) IsLoading(chatId string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading[chatId]
}

// generation versions a chat's cache. Fetches started under an older
// generation are discarded on arrival, so a background refresh that
// resolves after an optimistic write never clobbers it.
func (c *Client) generation(chatId string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen[chatId]
}

func (c *Client) bumpGeneration(chatId string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen[chatId]++
}

func (c *Client) setLoading(chatId string, v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v {
		c.loading[chatId] = true
	} else {
		delete(c.loading, chatId)
	}
}

// --- Wire types ---

type SendRequest struct {
	FileId      string          `json:"fileId"`
	Message     string          `json:"message"`
	ChatType    string          `json:"chatType"`
	ChatId      string          `json:"chatId"`
	LegalFilter json.RawMessage `json:"legalFilter,omitempty"`
}

type newChatRequest struct {
	FileId   string `json:"fileId"`
	Message  string `json:"message"`
	ChatType string `json:"chatType"`
}

type newChatResponse struct {
	ChatId string `json:"chatId"`
}

type ChatSummary struct {
	Id        string     `json:"id"`
	FileId    *string    `json:"fileId,omitempty"`
	ChatName  string     `json:"chatName"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type messagesPage struct {
	Messages   []CachedMessage `json:"messages"`
	NextCursor *string         `json:"nextCursor,omitempty"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	return req, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("api error: status %d, body %s", resp.StatusCode, string(bodyBytes))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// NewChat opens a conversation and returns its id. The first message
// becomes the chat name.
func (c *Client) NewChat(ctx context.Context, fileId, message, chatType string) (string, error) {
	var res newChatResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/chat/v1", newChatRequest{
		FileId:   fileId,
		Message:  message,
		ChatType: chatType,
	}, &res)
	if err != nil {
		return "", err
	}
	return res.ChatId, nil
}

func (c *Client) ListChats(ctx context.Context, fileId string) ([]ChatSummary, error) {
	path := "/api/chat/v1"
	if fileId != "" {
		path += "?fileId=" + fileId
	}
	var res []ChatSummary
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) DeleteChat(ctx context.Context, chatId, fileId string) error {
	path := "/api/chat/v1/" + chatId
	if fileId != "" {
		path += "?fileId=" + fileId
	}
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return err
	}
	c.bumpGeneration(chatId)
	c.cache.Invalidate(chatId)
	return nil
}

// FetchMessages loads one page into the cache. Without a cursor it
// replaces the cached first page; with a cursor it appends an older one.
func (c *Client) FetchMessages(ctx context.Context, chatId, fileId string, limit int, cursor *string) (*string, error) {
	gen := c.generation(chatId)

	path := fmt.Sprintf("/api/chat/v1/%s/messages?limit=%d", chatId, limit)
	if fileId != "" {
		path += "&fileId=" + fileId
	}
	if cursor != nil {
		path += "&cursor=" + *cursor
	}

	var res messagesPage
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}

	// A send or delete happened while this fetch was in flight. The
	// response belongs to the old cache state; drop it.
	if c.generation(chatId) != gen {
		return nil, nil
	}

	page := Page{Messages: res.Messages, NextCursor: res.NextCursor}
	if cursor == nil {
		c.cache.SetFirstPage(chatId, page)
	} else {
		c.cache.AppendPage(chatId, page)
	}
	return res.NextCursor, nil
}

// Send runs one optimistic turn:
//
//  1. snapshot the cache and prepend the user message locally
//  2. POST the turn; a non-2xx response rolls the snapshot back
//  3. apply each streamed chunk as the accumulated reply so far
//  4. refetch the first page so provisional rows get server ids
//
// The returned error is nil whenever the stream completed, including
// turns the server resolved to its fallback reply.
func (c *Client) Send(ctx context.Context, req SendRequest) error {
	chatId := req.ChatId

	c.bumpGeneration(chatId)
	snapshot := c.cache.Snapshot(chatId)
	c.cache.PrependUserMessage(chatId, req.Message)
	c.setLoading(chatId, true)

	defer func() {
		c.setLoading(chatId, false)
		// Settle: replace provisional rows with what the server persisted.
		refetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		c.FetchMessages(refetchCtx, chatId, req.FileId, 10, nil)
	}()

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/api/message/v1", req)
	if err != nil {
		c.cache.Restore(chatId, snapshot)
		return err
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		c.cache.Restore(chatId, snapshot)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		c.cache.Restore(chatId, snapshot)
		return fmt.Errorf("failed to send message: status %d, body %s", resp.StatusCode, string(bodyBytes))
	}

	var acc bytes.Buffer
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			acc.Write(buf[:n])
			c.cache.ApplyAssistantText(chatId, acc.String())
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}

	return nil
}
