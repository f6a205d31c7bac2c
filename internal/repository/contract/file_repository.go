package contract

import (
	"context"

	"legalchat-be/internal/entity"
	"legalchat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type FileRepository interface {
	Create(ctx context.Context, file *entity.File) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.File, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.File, error)
}

type ChatFileRepository interface {
	Create(ctx context.Context, file *entity.ChatFile) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByChatId(ctx context.Context, chatId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatFile, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatFile, error)
}
