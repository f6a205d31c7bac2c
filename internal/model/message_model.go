package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Message struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatId        uuid.UUID      `gorm:"type:uuid;not null;index:idx_messages_chat_created"`
	FileId        *uuid.UUID     `gorm:"type:uuid;index"`
	UserId        uuid.UUID      `gorm:"type:uuid;not null;index"`
	IsUserMessage bool           `gorm:"not null"`
	Text          string         `gorm:"type:text;not null"`
	AppliedFilter datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time      `gorm:"autoCreateTime;index:idx_messages_chat_created"`
}

func (Message) TableName() string {
	return "messages"
}
