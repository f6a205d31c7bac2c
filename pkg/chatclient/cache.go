package chatclient

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// AssistantDraftId marks the in-flight assistant reply in the cache. The
// draft is replaced by the server-assigned row on the settle refetch.
const AssistantDraftId = "ai-response"

// CachedMessage mirrors the wire shape of one message.
type CachedMessage struct {
	Id            string    `json:"id"`
	Text          string    `json:"text"`
	IsUserMessage bool      `json:"isUserMessage"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Page is one cached slice of a chat's history, newest first. Pages are
// kept in fetch order, so the first page holds the newest messages.
type Page struct {
	Messages   []CachedMessage
	NextCursor *string
}

// MessageCache holds the locally cached message pages per chat. All
// reads return deep copies; mutation happens only through the methods
// below, under one lock, so a streaming turn and a page fetch never
// interleave half-applied.
type MessageCache struct {
	mu    sync.Mutex
	store *cache.Cache
}

func NewMessageCache() *MessageCache {
	// Default expiration of 1 hour, purging expired chats every 10 minutes
	return &MessageCache{
		store: cache.New(1*time.Hour, 10*time.Minute),
	}
}

func (c *MessageCache) pages(chatId string) []Page {
	if x, found := c.store.Get(chatId); found {
		return x.([]Page)
	}
	return nil
}

func clonePages(pages []Page) []Page {
	cloned := make([]Page, len(pages))
	for i, p := range pages {
		cloned[i] = Page{
			Messages:   append([]CachedMessage(nil), p.Messages...),
			NextCursor: p.NextCursor,
		}
	}
	return cloned
}

// Pages returns a copy of the cached pages for a chat.
func (c *MessageCache) Pages(chatId string) []Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clonePages(c.pages(chatId))
}

// Messages flattens the cached pages into one newest-first slice.
func (c *MessageCache) Messages(chatId string) []CachedMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []CachedMessage
	for _, p := range c.pages(chatId) {
		out = append(out, p.Messages...)
	}
	return out
}

// Snapshot captures the current pages for rollback.
func (c *MessageCache) Snapshot(chatId string) []Page {
	return c.Pages(chatId)
}

// Restore puts a snapshot back, discarding everything applied since.
func (c *MessageCache) Restore(chatId string, snapshot []Page) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Set(chatId, clonePages(snapshot), cache.DefaultExpiration)
}

// SetFirstPage replaces the newest page with freshly fetched data. Older
// pages are dropped; infinite scrolling refills them on demand.
func (c *MessageCache) SetFirstPage(chatId string, page Page) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Set(chatId, clonePages([]Page{page}), cache.DefaultExpiration)
}

// AppendPage adds an older page after the existing ones.
func (c *MessageCache) AppendPage(chatId string, page Page) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pages := clonePages(c.pages(chatId))
	pages = append(pages, Page{
		Messages:   append([]CachedMessage(nil), page.Messages...),
		NextCursor: page.NextCursor,
	})
	c.store.Set(chatId, pages, cache.DefaultExpiration)
}

// PrependUserMessage optimistically inserts the just-sent message at the
// top of the first page and returns its provisional id.
func (c *MessageCache) PrependUserMessage(chatId, text string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	pages := clonePages(c.pages(chatId))
	if len(pages) == 0 {
		pages = []Page{{}}
	}

	id := uuid.NewString()
	pages[0].Messages = append([]CachedMessage{{
		Id:            id,
		Text:          text,
		IsUserMessage: true,
		CreatedAt:     time.Now(),
	}}, pages[0].Messages...)

	c.store.Set(chatId, pages, cache.DefaultExpiration)
	return id
}

// ApplyAssistantText upserts the streaming assistant draft. The text is
// the full accumulated reply so far, so applying the same state twice is
// harmless. The draft is created on the first page on the first call and
// rewritten in place afterwards.
func (c *MessageCache) ApplyAssistantText(chatId, fullText string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pages := clonePages(c.pages(chatId))
	if len(pages) == 0 {
		pages = []Page{{}}
	}

	draftExists := false
	for _, p := range pages {
		for _, msg := range p.Messages {
			if msg.Id == AssistantDraftId {
				draftExists = true
				break
			}
		}
	}

	if !draftExists {
		pages[0].Messages = append([]CachedMessage{{
			Id:            AssistantDraftId,
			Text:          fullText,
			IsUserMessage: false,
			CreatedAt:     time.Now(),
		}}, pages[0].Messages...)
	} else {
		for pi := range pages {
			for mi := range pages[pi].Messages {
				if pages[pi].Messages[mi].Id == AssistantDraftId {
					pages[pi].Messages[mi].Text = fullText
				}
			}
		}
	}

	c.store.Set(chatId, pages, cache.DefaultExpiration)
}

// Invalidate drops a chat's cached pages entirely.
func (c *MessageCache) Invalidate(chatId string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Delete(chatId)
}
