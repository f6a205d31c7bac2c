package service

import (
	"context"
	"strings"
	"time"

	"legalchat-be/internal/constant"
	"legalchat-be/internal/dto"
	"legalchat-be/internal/entity"
	"legalchat-be/internal/pkg/logger"
	"legalchat-be/internal/pkg/serverutils"
	"legalchat-be/internal/repository/specification"
	"legalchat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IChatService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.NewChatRequest) (*dto.NewChatResponse, error)
	List(ctx context.Context, userId uuid.UUID, fileId *uuid.UUID) ([]*dto.ChatResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, chatId uuid.UUID, fileId *uuid.UUID) (*dto.ChatResponse, error)
	GetMessages(ctx context.Context, userId uuid.UUID, chatId string, fileId *uuid.UUID, limit int, cursor *uuid.UUID) (*dto.GetMessagesResponse, error)
	Touch(ctx context.Context, chatId uuid.UUID) error
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewChatService(uowFactory unitofwork.RepositoryFactory, logger logger.ILogger) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		logger:     logger,
	}
}

// NormalizeChatId strips literal surrounding quotes that older client
// builds send around the chat id, then parses it.
func NormalizeChatId(raw string) (uuid.UUID, error) {
	return uuid.Parse(strings.ReplaceAll(raw, `"`, ""))
}

func (c *chatService) Create(ctx context.Context, userId uuid.UUID, req *dto.NewChatRequest) (*dto.NewChatResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	var fileId *uuid.UUID
	if req.FileId != "" {
		id, err := uuid.Parse(req.FileId)
		if err != nil {
			return nil, serverutils.ErrBadRequest
		}
		fileId = &id
	}

	// Document chats must point at a file the user owns.
	if req.ChatType == constant.ChatTypeDocument && fileId != nil {
		file, err := uow.FileRepository().FindOne(ctx,
			specification.ByID{ID: *fileId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if file == nil {
			return nil, serverutils.ErrNotFound
		}
	}

	chat := entity.Chat{
		Id:        uuid.New(),
		UserId:    userId,
		FileId:    fileId,
		ChatName:  req.Message,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatRepository().Create(ctx, &chat); err != nil {
		return nil, err
	}

	return &dto.NewChatResponse{ChatId: chat.Id}, nil
}

func (c *chatService) List(ctx context.Context, userId uuid.UUID, fileId *uuid.UUID) ([]*dto.ChatResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	chats, err := uow.ChatRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.FileScoped{FileID: fileId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ChatResponse, 0, len(chats))
	for _, chat := range chats {
		res = append(res, toChatResponse(chat))
	}
	return res, nil
}

func (c *chatService) Delete(ctx context.Context, userId uuid.UUID, chatId uuid.UUID, fileId *uuid.UUID) (*dto.ChatResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindOne(ctx,
		specification.ByID{ID: chatId},
		specification.UserOwnedBy{UserID: userId},
		specification.FileScoped{FileID: fileId},
	)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, serverutils.ErrNotFound
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	if err := uow.MessageRepository().DeleteByChatId(ctx, chatId); err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.ChatFileRepository().DeleteByChatId(ctx, chatId); err != nil {
		uow.Rollback()
		return nil, err
	}
	// Reference material attached to this chat lives under its id.
	if err := uow.DocEmbeddingRepository().DeleteByNamespace(ctx, chatId.String()); err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.ChatRepository().Delete(ctx, chatId); err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	c.logger.Info("chat", "chat deleted", map[string]interface{}{
		"chat_id": chatId,
		"user_id": userId,
	})

	return toChatResponse(chat), nil
}

func (c *chatService) GetMessages(ctx context.Context, userId uuid.UUID, chatId string, fileId *uuid.UUID, limit int, cursor *uuid.UUID) (*dto.GetMessagesResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	id, err := NormalizeChatId(chatId)
	if err != nil {
		return nil, serverutils.ErrBadRequest
	}

	if fileId != nil {
		file, err := uow.FileRepository().FindOne(ctx,
			specification.ByID{ID: *fileId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if file == nil {
			return nil, serverutils.ErrNotFound
		}
	}

	chat, err := uow.ChatRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
		specification.FileScoped{FileID: fileId},
	)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, serverutils.ErrNotFound
	}

	if limit <= 0 {
		limit = constant.DefaultPageLimit
	}

	page, err := uow.MessageRepository().FindPage(ctx, id, fileId, limit, cursor)
	if err != nil {
		return nil, err
	}

	messages := make([]dto.MessageResponse, 0, len(page.Messages))
	for _, msg := range page.Messages {
		messages = append(messages, dto.MessageResponse{
			Id:            msg.Id,
			IsUserMessage: msg.IsUserMessage,
			Text:          msg.Text,
			CreatedAt:     msg.CreatedAt,
		})
	}

	return &dto.GetMessagesResponse{
		Messages:   messages,
		NextCursor: page.NextCursor,
	}, nil
}

func (c *chatService) Touch(ctx context.Context, chatId uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	return uow.ChatRepository().Touch(ctx, chatId)
}

func toChatResponse(chat *entity.Chat) *dto.ChatResponse {
	return &dto.ChatResponse{
		Id:        chat.Id,
		FileId:    chat.FileId,
		ChatName:  chat.ChatName,
		CreatedAt: chat.CreatedAt,
		UpdatedAt: chat.UpdatedAt,
	}
}
