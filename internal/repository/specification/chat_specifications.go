package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByChatID filters messages by their chat
type ByChatID struct {
	ChatID uuid.UUID
}

func (s ByChatID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_id = ?", s.ChatID)
}

// FileScoped matches rows bound to one file, or rows with no file when
// FileID is nil. Research-track chats and messages carry a NULL file id.
type FileScoped struct {
	FileID *uuid.UUID
}

func (s FileScoped) Apply(db *gorm.DB) *gorm.DB {
	if s.FileID == nil {
		return db.Where("file_id IS NULL")
	}
	return db.Where("file_id = ?", *s.FileID)
}

// CreatedAtOrBefore anchors cursor pagination: rows at or before the
// anchor timestamp, ties broken on id so the anchor row itself is included
// exactly once.
type CreatedAtOrBefore struct {
	At time.Time
	Id uuid.UUID
}

func (s CreatedAtOrBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("(created_at, id) <= (?, ?)", s.At, s.Id)
}
