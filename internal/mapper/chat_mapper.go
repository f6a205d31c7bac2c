package mapper

import (
	"time"

	"legalchat-be/internal/entity"
	"legalchat-be/internal/model"

	"gorm.io/datatypes"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Chat Mappers

func (m *ChatMapper) ChatToEntity(c *model.Chat) *entity.Chat {
	if c == nil {
		return nil
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.Chat{
		Id:        c.Id,
		UserId:    c.UserId,
		FileId:    c.FileId,
		ChatName:  c.ChatName,
		CreatedAt: c.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *ChatMapper) ChatToModel(c *entity.Chat) *model.Chat {
	if c == nil {
		return nil
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.Chat{
		Id:        c.Id,
		UserId:    c.UserId,
		FileId:    c.FileId,
		ChatName:  c.ChatName,
		CreatedAt: c.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

// Message Mappers

func (m *ChatMapper) MessageToEntity(msg *model.Message) *entity.Message {
	if msg == nil {
		return nil
	}

	return &entity.Message{
		Id:            msg.Id,
		ChatId:        msg.ChatId,
		FileId:        msg.FileId,
		UserId:        msg.UserId,
		IsUserMessage: msg.IsUserMessage,
		Text:          msg.Text,
		AppliedFilter: []byte(msg.AppliedFilter),
		CreatedAt:     msg.CreatedAt,
	}
}

func (m *ChatMapper) MessageToModel(msg *entity.Message) *model.Message {
	if msg == nil {
		return nil
	}

	return &model.Message{
		Id:            msg.Id,
		ChatId:        msg.ChatId,
		FileId:        msg.FileId,
		UserId:        msg.UserId,
		IsUserMessage: msg.IsUserMessage,
		Text:          msg.Text,
		AppliedFilter: datatypes.JSON(msg.AppliedFilter),
		CreatedAt:     msg.CreatedAt,
	}
}
