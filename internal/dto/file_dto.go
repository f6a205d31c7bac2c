package dto

import (
	"time"

	"github.com/google/uuid"
)

type FileResponse struct {
	Id           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Key          string    `json:"key"`
	UploadStatus string    `json:"uploadStatus"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ChatFileResponse struct {
	Id        uuid.UUID `json:"id"`
	ChatId    uuid.UUID `json:"chatId"`
	Name      string    `json:"name"`
	Key       string    `json:"key"`
	CreatedAt time.Time `json:"createdAt"`
}
