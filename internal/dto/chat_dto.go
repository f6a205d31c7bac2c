package dto

import (
	"time"

	"legalchat-be/pkg/legalfilter"

	"github.com/google/uuid"
)

// NewChatRequest opens a conversation. The first message doubles as the
// chat name.
type NewChatRequest struct {
	FileId   string `json:"fileId"`
	Message  string `json:"message" validate:"required"`
	ChatType string `json:"chatType" validate:"required,oneof=DOCUMENT RESEARCH"`
}

type NewChatResponse struct {
	ChatId uuid.UUID `json:"chatId"`
}

// SendMessageRequest is one chat turn. ChatId may arrive with literal
// surrounding quotes from older client builds; it is normalized before
// use.
type SendMessageRequest struct {
	FileId      string                 `json:"fileId"`
	Message     string                 `json:"message" validate:"required"`
	ChatType    string                 `json:"chatType" validate:"required,oneof=DOCUMENT RESEARCH"`
	ChatId      string                 `json:"chatId" validate:"required"`
	LegalFilter *legalfilter.Selection `json:"legalFilter"`
}

type ChatResponse struct {
	Id        uuid.UUID  `json:"id"`
	FileId    *uuid.UUID `json:"fileId,omitempty"`
	ChatName  string     `json:"chatName"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type MessageResponse struct {
	Id            uuid.UUID `json:"id"`
	IsUserMessage bool      `json:"isUserMessage"`
	Text          string    `json:"text"`
	CreatedAt     time.Time `json:"createdAt"`
}

// GetMessagesResponse is one reverse-chronological page plus the cursor
// of the next (older) page.
type GetMessagesResponse struct {
	Messages   []MessageResponse `json:"messages"`
	NextCursor *uuid.UUID        `json:"nextCursor,omitempty"`
}
