package entity

import (
	"time"

	"github.com/google/uuid"
)

// Message is one chat turn half. Messages are append-only and ordered by
// CreatedAt within a chat; the assistant reply is written only once the
// full completion text is known.
type Message struct {
	Id            uuid.UUID
	ChatId        uuid.UUID
	FileId        *uuid.UUID
	UserId        uuid.UUID
	IsUserMessage bool
	Text          string
	AppliedFilter []byte // compiled retrieval filter for the turn, JSON
	CreatedAt     time.Time
}
