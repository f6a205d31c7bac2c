package entity

import (
	"time"

	"github.com/google/uuid"
)

// File is an uploaded document owned by a user. Its vectors live in the
// document index under the file id namespace.
type File struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Name         string
	Key          string
	UploadStatus string
	CreatedAt    time.Time
}

// ChatFile is an additional reference document attached to a single chat.
// Its vectors live in the document index under the chat id namespace.
type ChatFile struct {
	Id        uuid.UUID
	ChatId    uuid.UUID
	Name      string
	Key       string
	CreatedAt time.Time
}
