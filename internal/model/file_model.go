package model

import (
	"time"

	"github.com/google/uuid"
)

type File struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID `gorm:"type:uuid;not null;index"`
	Name         string    `gorm:"type:text;not null"`
	Key          string    `gorm:"type:text;not null;index"`
	UploadStatus string    `gorm:"type:varchar(50);not null;default:'PENDING'"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (File) TableName() string {
	return "files"
}

type ChatFile struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:text;not null"`
	Key       string    `gorm:"type:text;not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ChatFile) TableName() string {
	return "chat_files"
}
