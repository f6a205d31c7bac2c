package entity

import (
	"time"

	"github.com/google/uuid"
)

// Chat is one conversation. FileId is set for document-track chats and
// nil for knowledge-base ("research") chats.
type Chat struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	FileId    *uuid.UUID
	ChatName  string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
